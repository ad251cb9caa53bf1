package models

import (
	"github.com/asaskevich/govalidator"

	dErrors "permitmap/pkg/domain-errors"
)

// BusinessDetails is the on-demand-fetched aggregate for one business.
// Fetched lazily when a user requests full details for a marker; cached only
// for the currently-selected business and discarded when selection changes.
// Every section is optional; the details panel renders what is present.
type BusinessDetails struct {
	BusinessInfo   *BusinessNameInfo       `json:"business_info,omitempty"`
	Address        *BusinessAddress        `json:"address,omitempty"`
	Representative *BusinessRepresentative `json:"representative,omitempty"`
	Requirements   *BusinessRequirements   `json:"requirements,omitempty"`
}

// BusinessNameInfo describes the registered business entity.
type BusinessNameInfo struct {
	BusinessID           string `json:"business_id"`
	IsMain               bool   `json:"is_main"`
	IsForeign            bool   `json:"is_foreign"`
	BusinessName         string `json:"business_name"`
	DateEstablished      string `json:"date_established"`
	OwnershipType        string `json:"ownership_type"`
	RegisteredCEO        string `json:"registered_ceo"`
	TradeName            string `json:"trade_name"`
	IsFranchise          bool   `json:"is_franchise"`
	IsMarketStall        bool   `json:"is_market_stall"`
	IsCommercialBuilding bool   `json:"is_commercial_building"`
	MarketStall          string `json:"market_stall"`
	BusinessBuildingID   string `json:"business_building_id"`
	BuildingSpace        string `json:"building_space"`
	WaiverAgreement      bool   `json:"waiver_agreement"`
	Active               bool   `json:"active"`
}

// BusinessAddress is the registered business address with contact details.
type BusinessAddress struct {
	Province     string `json:"province"`
	Municipality string `json:"municipality"`
	Barangay     string `json:"barangay"`
	Subdivision  string `json:"subdivision"`
	Street       string `json:"street"`
	BuildingName string `json:"building_name"`
	HouseNo      string `json:"house_no"`
	PhaseBlock   string `json:"phase_block"`
	Lot          string `json:"lot"`
	Landmark     string `json:"landmark"`
	LongLat      string `json:"longlat"`
	TelNo        string `json:"tel_no"`
	CellNo       string `json:"cell_no"`
	FaxNo        string `json:"fax_no"`
	Email        string `json:"email"`
	TIN          string `json:"tin"`
}

// Validate checks the address contact fields that have a checkable shape.
func (a *BusinessAddress) Validate() error {
	if a.Email != "" && !govalidator.IsEmail(a.Email) {
		return dErrors.New(dErrors.CodeValidation, "address email is not a valid email address")
	}
	return nil
}

// BusinessRepresentative is the registered representative for a business.
type BusinessRepresentative struct {
	RepID         string `json:"rep_id"`
	RepName       string `json:"rep_name"`
	RepPosition   string `json:"rep_position"`
	OwnershipType string `json:"ownership_type"`
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	SuffixName    string `json:"suffix_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	CivilStatus   string `json:"civil_status"`
	Nationality   string `json:"nationality"`
	TelNo         string `json:"tel_no"`
	CellNo        string `json:"cell_no"`
	FaxNo         string `json:"fax_no"`
	Email         string `json:"email"`
	TIN           string `json:"tin"`
	OutsideCity   bool   `json:"outside_city"`
	Province      string `json:"province"`
	Municipality  string `json:"municipality"`
	Barangay      string `json:"barangay"`
	Subdivision   string `json:"subdivision"`
	Street        string `json:"street"`
	BuildingName  string `json:"building_name"`
	HouseNo       string `json:"house_no"`
	Block         string `json:"block"`
	Lot           string `json:"lot"`
	Landmark      string `json:"landmark"`
	Active        bool   `json:"active"`
}

// Validate checks the representative contact fields.
func (r *BusinessRepresentative) Validate() error {
	if r.Email != "" && !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "representative email is not a valid email address")
	}
	if r.CellNo != "" && !govalidator.IsNumeric(r.CellNo) {
		return dErrors.New(dErrors.CodeValidation, "representative cell number must be numeric")
	}
	return nil
}

// BusinessRequirements collects the permit/clearance paperwork on file.
type BusinessRequirements struct {
	DTINo     string `json:"dti_no"`
	DTIIssued string `json:"dti_issued"`
	DTIExpiry string `json:"dti_expiry"`

	SECNo     string `json:"sec_no"`
	SECIssued string `json:"sec_issued"`
	SECExpiry string `json:"sec_expiry"`

	CDANo     string `json:"cda_no"`
	CDAIssued string `json:"cda_issued"`
	CDAExpiry string `json:"cda_expiry"`

	LocalClearanceNo   string `json:"local_clearance_no"`
	LocalClearanceDate string `json:"local_clearance_date"`

	CedulaNo          string `json:"cedula_no"`
	CedulaPlaceIssued string `json:"cedula_place_issued"`
	CedulaIssued      string `json:"cedula_issued"`
	CedulaAmount      string `json:"cedula_amount"`

	BOINo     string `json:"boi_no"`
	BOIIssued string `json:"boi_issued"`
	BOIExpiry string `json:"boi_expiry"`

	SSSNo      string `json:"sss_no"`
	SSSDateReg string `json:"sss_date_reg"`

	PagIbigNo  string `json:"pagibig_no"`
	PagIbigReg string `json:"pagibig_reg"`

	PHICNo  string `json:"phic_no"`
	PHICReg string `json:"phic_reg"`

	PEZARegistered bool   `json:"peza_registered"`
	PEZARegNo      string `json:"peza_reg_no"`
	PEZAIssued     string `json:"peza_issued"`
	PEZAExpiry     string `json:"peza_expiry"`
}
