// Package marker projects classified business records onto renderable map
// markers.
package marker

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"permitmap/internal/business/models"
	"permitmap/internal/compliance"
)

var (
	markersProjected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permitmap_markers_projected_total",
		Help: "Total number of map markers produced by the projector",
	})
	recordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permitmap_marker_records_dropped_total",
		Help: "Total number of business records dropped for unparseable coordinates",
	})
)

// LatLng is a geographic position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is the renderable projection of one business record.
type Marker struct {
	Position   LatLng            `json:"position"`
	BusinessID string            `json:"business_id"`
	Name       string            `json:"business_name"`
	Owner      string            `json:"owner"`
	Address    string            `json:"address"`
	Status     compliance.Status `json:"compliance"`
}

// Projector turns business records into markers. A nil logger is replaced
// with the default slog logger.
type Projector struct {
	logger *slog.Logger
}

func NewProjector(logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{logger: logger}
}

// Project maps records to markers, classifying each against now.
//
// Records whose coordinate string does not parse into two finite numbers are
// dropped, logged and counted; a malformed record never aborts the batch.
// Output preserves input order.
func (p *Projector) Project(records []models.BusinessRecord, now time.Time) []Marker {
	markers := make([]Marker, 0, len(records))
	for _, rec := range records {
		pos, err := ParseLongLat(rec.LongLat)
		if err != nil {
			recordsDropped.Inc()
			p.logger.Warn("dropping business with unparseable coordinates",
				"business_id", rec.ID,
				"longlat", rec.LongLat,
				"error", err.Error(),
			)
			continue
		}

		markers = append(markers, Marker{
			Position:   pos,
			BusinessID: rec.ID,
			Name:       rec.Name,
			Owner:      rec.RepName,
			Address:    AssembleAddress(rec),
			Status:     compliance.Classify(rec, now),
		})
	}
	markersProjected.Add(float64(len(markers)))
	return markers
}

// ParseLongLat parses a raw "lat,lng" string into a position. Both halves
// must be present and parse to finite floats.
func ParseLongLat(raw string) (LatLng, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("expected \"lat,lng\", got %q", raw)
	}

	lat, err := parseFinite(parts[0])
	if err != nil {
		return LatLng{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := parseFinite(parts[1])
	if err != nil {
		return LatLng{}, fmt.Errorf("longitude: %w", err)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// AssembleAddress builds the marker label address from the record's address
// fragments. Empty fragments simply produce adjacent separators; no trimming
// beyond straightforward concatenation.
func AssembleAddress(rec models.BusinessRecord) string {
	return fmt.Sprintf("%s %s, %s, %s, %s",
		rec.HouseNo, rec.Street, rec.Barangay, rec.Municipality, rec.Province)
}
