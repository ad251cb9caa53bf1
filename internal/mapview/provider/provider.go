// Package provider defines the narrow capability surface the map view
// controller consumes from an external map-rendering provider, plus a
// headless in-process implementation.
//
// The real provider is a remote rendering library loaded at runtime; the
// controller never depends on more than these interfaces, so it can be
// driven against the headless implementation in tests and dev runs.
package provider

import (
	"strings"

	"permitmap/internal/compliance"
	"permitmap/internal/marker"
	dErrors "permitmap/pkg/domain-errors"
)

// ViewMode is the user-selectable map view.
type ViewMode string

const (
	ViewRoadmap    ViewMode = "roadmap"
	ViewSatellite  ViewMode = "satellite"
	ViewTerrain    ViewMode = "terrain"
	ViewStreetView ViewMode = "streetview"
)

// ParseViewMode validates a raw view-mode value.
func ParseViewMode(raw string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ViewRoadmap:
		return ViewRoadmap, nil
	case ViewSatellite:
		return ViewSatellite, nil
	case ViewTerrain:
		return ViewTerrain, nil
	case ViewStreetView:
		return ViewStreetView, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation,
			"view mode must be one of: roadmap, satellite, terrain, streetview")
	}
}

// BaseLayer is a tile layer the surface can render. Street view is not a
// base layer; it hides the layer and activates the panorama instead.
type BaseLayer string

const (
	LayerRoadmap   BaseLayer = "roadmap"
	LayerSatellite BaseLayer = "satellite"
	LayerTerrain   BaseLayer = "terrain"
)

// SurfaceConfig configures a newly constructed map surface.
type SurfaceConfig struct {
	Center    marker.LatLng
	Zoom      int
	BaseLayer BaseLayer
}

// MarkerSpec describes one marker to place on the surface.
type MarkerSpec struct {
	Position marker.LatLng
	Icon     string
	Title    string
}

// OverlayContent is the preview overlay payload anchored to one marker.
type OverlayContent struct {
	BusinessID  string            `json:"business_id"`
	Name        string            `json:"business_name"`
	Owner       string            `json:"owner"`
	Address     string            `json:"address"`
	Status      compliance.Status `json:"compliance"`
	StatusColor string            `json:"status_color"`
}

// Provider constructs map surfaces.
type Provider interface {
	NewSurface(cfg SurfaceConfig) (Surface, error)
}

// Surface is one rendered map.
type Surface interface {
	PlaceMarker(spec MarkerSpec) (MarkerHandle, error)
	OpenOverlay(content OverlayContent, anchorBusinessID string)
	CloseOverlay()

	SetCenter(pos marker.LatLng)
	Center() marker.LatLng
	SetZoom(zoom int)
	Zoom() int
	SetBaseLayer(layer BaseLayer)

	Panorama() Panorama
}

// MarkerHandle is a placed marker. Detach removes it from the surface and
// drops its event registrations.
type MarkerHandle interface {
	Detach()
	OnHover(fn func(entered bool))
	OnClick(fn func())
}

// Panorama is the street-level view attached to a surface.
type Panorama interface {
	SetPosition(pos marker.LatLng)
	SetOrientation(heading, pitch float64)
	SetVisible(visible bool)
}

// StatusIcon returns the flag icon name for a compliance status.
func StatusIcon(status compliance.Status) string {
	return "flag-" + string(status)
}

// StatusColor returns the overlay accent color for a compliance status.
func StatusColor(status compliance.Status) string {
	switch status {
	case compliance.StatusCompliant:
		return "#10b981"
	case compliance.StatusPending:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}
