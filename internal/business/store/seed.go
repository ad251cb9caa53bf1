package store

import (
	"permitmap/internal/business/models"
)

// SeedLeganesFixture loads the Leganes, Iloilo business fixture into the
// store. Two businesses carry full details aggregates; details fetches for
// the rest return not-found, which exercises the dismissible-notice path.
func SeedLeganesFixture(s *InMemory) error {
	records := []models.BusinessRecord{
		{
			ID: "BIZ001", Name: "Leganes General Merchandise", RepName: "Rep BIZ001",
			LongLat:  "10.7868,122.5894",
			Barangay: "Poblacion", Municipality: "Leganes", Province: "Iloilo",
			Street: "Rizal Street", HouseNo: "123",
			DTIExpiry: models.Date("2024-12-31"), SECExpiry: models.Date("2025-12-31"), CDAExpiry: models.Date("2024-12-31"),
		},
		{
			ID: "BIZ002", Name: "Napnud Agricultural Supply", RepName: "Rep BIZ002",
			LongLat:  "10.7912,122.5921",
			Barangay: "Napnud", Municipality: "Leganes", Province: "Iloilo",
			Street: "Luna Street", HouseNo: "456",
			DTIExpiry: models.Date("2026-01-15"), SECExpiry: models.Date("2026-12-31"), CDAExpiry: models.Date("2026-12-31"),
		},
		{
			ID: "BIZ003", Name: "Cagamutan Sur Hardware", RepName: "Rep BIZ003",
			LongLat:  "10.7945,122.5956",
			Barangay: "Cagamutan Sur", Municipality: "Leganes", Province: "Iloilo",
			Street: "Burgos Street", HouseNo: "789",
			DTIExpiry: models.Date("2023-12-01"), SECExpiry: models.Date("2023-12-01"), CDAExpiry: models.Date("2023-12-01"),
		},
		{
			ID: "BIZ101", Name: "Cagamutan Norte Sari-Sari Store", RepName: "Ana N. Santos",
			LongLat:  "10.7891,122.5912",
			Barangay: "Cagamutan Norte", Municipality: "Leganes", Province: "Iloilo",
			Street: "Iloilo East Coast Road", HouseNo: "10",
			DTIExpiry: models.Date("2024-06-30"), SECExpiry: models.Date("2024-06-30"), CDAExpiry: models.Date("2024-06-30"),
		},
		{
			ID: "BIZ102", Name: "Guihaman Rice Trading", RepName: "Pedro Z. Domingo",
			LongLat:  "10.7834,122.5876",
			Barangay: "Guihaman", Municipality: "Leganes", Province: "Iloilo",
			Street: "Leganes-Zarraga Road", HouseNo: "455",
			DTIExpiry: models.Date("2024-03-15"), SECExpiry: models.Date("2024-12-31"), CDAExpiry: models.Date("2024-12-31"),
		},
		{
			ID: "BIZ103", Name: "Buntatala Furniture Shop", RepName: "Carmen S. Villanueva",
			LongLat:  "10.7967,122.5989",
			Barangay: "Buntatala", Municipality: "Leganes", Province: "Iloilo",
			Street: "Jaro-Leganes Road", HouseNo: "207",
			DTIExpiry: models.Date("2023-11-30"), SECExpiry: models.Date("2023-11-30"), CDAExpiry: models.Date("2023-11-30"),
		},
		{
			ID: "BIZ104", Name: "M.V. Hechanova Auto Repair", RepName: "Maria N. Rivera",
			LongLat:  "10.7992,122.6013",
			Barangay: "M.V. Hechanova (Balabago)", Municipality: "Leganes", Province: "Iloilo",
			Street: "Iloilo East Coast Road", HouseNo: "271",
			DTIExpiry: models.Date("2024-09-30"), SECExpiry: models.Date("2024-09-30"), CDAExpiry: models.Date("2024-09-30"),
		},
		{
			ID: "BIZ105", Name: "Calaboa Food Products", RepName: "Pedro H. Rivera",
			LongLat:  "10.7819,122.5852",
			Barangay: "Calaboa", Municipality: "Leganes", Province: "Iloilo",
			Street: "Leganes-Zarraga Road", HouseNo: "70",
			DTIExpiry: models.Date("2024-12-31"), SECExpiry: models.Date("2024-12-31"), CDAExpiry: models.Date("2024-12-31"),
		},
	}

	details := map[string]*models.BusinessDetails{
		"BIZ001": {
			BusinessInfo: &models.BusinessNameInfo{
				BusinessID: "BIZ001", IsMain: true,
				BusinessName: "Leganes General Merchandise", DateEstablished: "2010-05-15",
				OwnershipType: "Single Proprietorship", RegisteredCEO: "Rep BIZ001",
				TradeName: "LGM Store", IsCommercialBuilding: true,
				BusinessBuildingID: "BLD001", BuildingSpace: "Owned", Active: true,
			},
			Address: &models.BusinessAddress{
				Province: "Iloilo", Municipality: "Leganes", Barangay: "Poblacion",
				Street: "Rizal Street", BuildingName: "LGM Building", HouseNo: "123",
				Lot: "Lot 5", Landmark: "Near Municipal Hall", LongLat: "10.7868,122.5894",
				TelNo: "033-3200101", CellNo: "09176852708",
				Email: "lgm@leganesbiz.com", TIN: "123-456-789-000",
			},
			Representative: &models.BusinessRepresentative{
				RepID: "BIZ001", RepName: "Rep BIZ001", RepPosition: "Manager",
				OwnershipType: "Single Proprietorship",
				FirstName:     "John", MiddleName: "M.", LastName: "Doe",
				BirthDate: "1985-06-15", Gender: "Male", CivilStatus: "Single",
				Nationality: "Filipino", TelNo: "033-3200101", CellNo: "09176852708",
				Email: "repbiz001@leganesbiz.com", TIN: "123-456-789-001",
				Province: "Iloilo", Municipality: "Leganes", Barangay: "Poblacion",
				Street: "Rizal Street", HouseNo: "123", Active: true,
			},
			Requirements: &models.BusinessRequirements{
				DTINo: "DTI123456", DTIIssued: "2023-01-15", DTIExpiry: "2024-12-31",
				LocalClearanceNo: "LCN001", LocalClearanceDate: "2023-02-01",
				CedulaNo: "CED001", CedulaPlaceIssued: "Leganes",
				CedulaIssued: "2023-02-01", CedulaAmount: "50.00",
				SSSNo: "SSS123456", SSSDateReg: "2023-02-01",
				PagIbigNo: "PAG123456", PagIbigReg: "2023-02-01",
				PHICNo: "PHIC123456", PHICReg: "2023-02-01",
			},
		},
		"BIZ101": {
			BusinessInfo: &models.BusinessNameInfo{
				BusinessID: "BIZ101", IsMain: true,
				BusinessName: "Cagamutan Norte Sari-Sari Store", DateEstablished: "2025-04-29",
				OwnershipType: "Single Proprietorship", RegisteredCEO: "Ana N. Santos",
				TradeName: "Ana Store", IsFranchise: true, IsMarketStall: true,
				IsCommercialBuilding: true, BuildingSpace: "Rented",
				WaiverAgreement: true, Active: true,
			},
			Address: &models.BusinessAddress{
				Province: "Iloilo", Municipality: "Leganes", Barangay: "Cagamutan Norte",
				Street: "Iloilo East Coast Road", HouseNo: "10",
				Landmark: "Near main road", LongLat: "10.7891,122.5912",
				TelNo: "033-3200101", CellNo: "09170000101",
				Email: "biz101@leganesbiz.com", TIN: "987-654-321-000",
			},
		},
	}

	for _, rec := range records {
		if err := s.Add(rec, details[rec.ID]); err != nil {
			return err
		}
	}
	return nil
}
