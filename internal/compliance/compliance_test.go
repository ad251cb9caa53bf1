package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitmap/internal/business/models"
)

var testNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func record(dti, sec, cda string) models.BusinessRecord {
	return models.BusinessRecord{
		ID:        "BIZ-TEST",
		Name:      "Test Business",
		DTIExpiry: models.Date(dti),
		SECExpiry: models.Date(sec),
		CDAExpiry: models.Date(cda),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  models.BusinessRecord
		want Status
	}{
		{
			name: "all expiries far in the future",
			rec:  record("2099-01-01", "2099-01-01", "2099-01-01"),
			want: StatusCompliant,
		},
		{
			name: "all expiries exactly at the 30 day threshold",
			rec:  record("2024-01-31", "2024-01-31", "2024-01-31"),
			want: StatusCompliant,
		},
		{
			name: "one expiry inside the 30 day window",
			rec:  record("2024-01-15", "2099-01-01", "2099-01-01"),
			want: StatusPending,
		},
		{
			name: "one expiry strictly before now, others far future",
			rec:  record("2020-01-01", "2099-01-01", "2099-01-01"),
			want: StatusNoncompliant,
		},
		{
			name: "one expiry just below the threshold",
			rec:  record("2024-01-30", "2099-01-01", "2099-01-01"),
			want: StatusPending,
		},
		{
			name: "expiry exactly at now is not expired",
			rec:  record("2024-01-01", "2099-01-01", "2099-01-01"),
			want: StatusPending,
		},
		{
			name: "all three expired",
			rec:  record("2023-12-01", "2023-12-01", "2023-12-01"),
			want: StatusNoncompliant,
		},
		{
			name: "one date missing, others compliant",
			rec:  record("", "2099-01-01", "2099-01-01"),
			want: StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, testNow))
		})
	}
}

// TestClassifyAllDatesMissing pins the documented boundary behavior: a record
// with no expiry dates at all lands in pending, not noncompliant, because
// each missing date defaults to the evaluation timestamp itself. Do not
// change this without changing the missing-date default.
func TestClassifyAllDatesMissing(t *testing.T) {
	rec := record("", "", "")
	assert.Equal(t, StatusPending, Classify(rec, testNow))
}

func TestClassifyIsPure(t *testing.T) {
	rec := record("2024-02-15", "2099-01-01", "2099-01-01")
	first := Classify(rec, testNow)
	second := Classify(rec, testNow)
	assert.Equal(t, first, second)
}

// TestClassifyMonotonicOverTime verifies that advancing now can only move a
// record forward through compliant -> pending -> noncompliant, never back.
func TestClassifyMonotonicOverTime(t *testing.T) {
	rank := map[Status]int{
		StatusCompliant:    0,
		StatusPending:      1,
		StatusNoncompliant: 2,
	}

	rec := record("2024-03-01", "2024-06-01", "2024-09-01")
	prev := Classify(rec, testNow)
	for day := 1; day <= 400; day += 7 {
		now := testNow.AddDate(0, 0, day)
		cur := Classify(rec, now)
		require.GreaterOrEqual(t, rank[cur], rank[prev],
			"status regressed from %s to %s at day %d", prev, cur, day)
		prev = cur
	}
	assert.Equal(t, StatusNoncompliant, prev)
}

func TestParseFilter(t *testing.T) {
	t.Run("accepts empty and the three statuses", func(t *testing.T) {
		for raw, want := range map[string]Filter{
			"":             FilterAll,
			"compliant":    Filter(StatusCompliant),
			"Pending":      Filter(StatusPending),
			"NONCOMPLIANT": Filter(StatusNoncompliant),
		} {
			got, err := ParseFilter(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := ParseFilter("expired")
		require.Error(t, err)
	})
}

func TestFilterMatches(t *testing.T) {
	compliant := record("2099-01-01", "2099-01-01", "2099-01-01")
	expired := record("2020-01-01", "2099-01-01", "2099-01-01")

	assert.True(t, FilterAll.Matches(compliant, testNow))
	assert.True(t, FilterAll.Matches(expired, testNow))
	assert.True(t, Filter(StatusCompliant).Matches(compliant, testNow))
	assert.False(t, Filter(StatusCompliant).Matches(expired, testNow))
	assert.True(t, Filter(StatusNoncompliant).Matches(expired, testNow))
}
