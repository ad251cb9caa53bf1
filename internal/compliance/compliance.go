// Package compliance derives a business's permit-compliance status from its
// three permit expiry dates and an evaluation timestamp.
package compliance

import (
	"strings"
	"time"

	"permitmap/internal/business/models"
	dErrors "permitmap/pkg/domain-errors"
)

// Status is the derived compliance tag for a business. It is computed on
// demand and never persisted independently of the record that produced it.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusPending      Status = "pending"
	StatusNoncompliant Status = "noncompliant"
)

// PendingWindowDays is the lookahead window: all three expiries must sit at
// least this far past the evaluation timestamp for a business to be compliant.
const PendingWindowDays = 30

// Classify maps a business record and an evaluation timestamp to a status.
//
// A missing expiry counts as equal to `now` - already at the boundary of
// expiration, the conservative default. One consequence is pinned by a
// regression test: a record with all three dates missing classifies as
// pending, because `now` fails the compliant threshold but is not strictly
// before `now`. Preserve this boundary behavior; do not "fix" it here.
//
// Classify is pure: same record and same now always yield the same status.
func Classify(rec models.BusinessRecord, now time.Time) Status {
	threshold := now.AddDate(0, 0, PendingWindowDays)

	dti := orNow(rec.DTIExpiry, now)
	sec := orNow(rec.SECExpiry, now)
	cda := orNow(rec.CDAExpiry, now)

	if !dti.Before(threshold) && !sec.Before(threshold) && !cda.Before(threshold) {
		return StatusCompliant
	}
	if dti.Before(now) || sec.Before(now) || cda.Before(now) {
		return StatusNoncompliant
	}
	return StatusPending
}

func orNow(expiry *time.Time, now time.Time) time.Time {
	if expiry == nil {
		return now
	}
	return *expiry
}

// Filter selects a subset of businesses by compliance status. The empty
// filter selects all businesses.
type Filter string

// FilterAll matches every record regardless of status.
const FilterAll Filter = ""

// ParseFilter validates a raw filter value. Accepted values are the empty
// string and the three status names, case-insensitively.
func ParseFilter(raw string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return FilterAll, nil
	case string(StatusCompliant):
		return Filter(StatusCompliant), nil
	case string(StatusPending):
		return Filter(StatusPending), nil
	case string(StatusNoncompliant):
		return Filter(StatusNoncompliant), nil
	default:
		return FilterAll, dErrors.New(dErrors.CodeValidation,
			"compliance filter must be one of: compliant, pending, noncompliant")
	}
}

// Matches reports whether a record passes the filter when classified at now.
// Filtering always classifies against the caller's current timestamp; results
// are never cached against a stale now.
func (f Filter) Matches(rec models.BusinessRecord, now time.Time) bool {
	if f == FilterAll {
		return true
	}
	return Classify(rec, now) == Status(f)
}

// String returns the raw filter value ("" for all).
func (f Filter) String() string { return string(f) }
