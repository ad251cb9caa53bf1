package models

import (
	"strings"
	"time"

	dErrors "permitmap/pkg/domain-errors"
)

// BusinessRecord is one registered business as known to the map layer.
//
// Invariants:
//   - ID is a non-empty opaque key
//   - LongLat is the raw "latitude,longitude" string as registered; it may be
//     malformed and is only ever parsed by the marker projector, which drops
//     records it cannot parse
//   - The three permit expiries are nullable; compliance status is a pure
//     function of them and the evaluation timestamp, never stored
//   - Records are immutable for the lifetime of a map session and replaced
//     wholesale when a filter changes
type BusinessRecord struct {
	ID      string `json:"business_id"`
	Name    string `json:"business_name"`
	RepName string `json:"rep_name"`

	// Raw coordinate string, "lat,lng".
	LongLat string `json:"longlat"`

	// Address fragments, used only for marker label assembly.
	Barangay     string `json:"barangay"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	Street       string `json:"street"`
	HouseNo      string `json:"house_no"`

	// Permit expiries for the three registration types (DTI, SEC, CDA).
	// Nil means the permit has no recorded expiry.
	DTIExpiry *time.Time `json:"dti_expiry"`
	SECExpiry *time.Time `json:"sec_expiry"`
	CDAExpiry *time.Time `json:"cda_expiry"`
}

// Validate checks the record's structural invariants.
func (r *BusinessRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "business id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "business name is required")
	}
	return nil
}

// Date parses an ISO "2006-01-02" date into a *time.Time, returning nil for
// the empty string. Fixture seeding and record ingestion share this helper.
func Date(iso string) *time.Time {
	if iso == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return nil
	}
	return &t
}
