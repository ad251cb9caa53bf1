package provider

import (
	"log/slog"
	"sync"

	"permitmap/internal/marker"
)

// Headless is an in-process provider implementation. It renders nothing but
// tracks the full surface state under a mutex, which makes it usable both as
// the dev-mode provider and as the test double for the controller: tests
// inspect placed markers and fire their registered hover/click callbacks.
type Headless struct {
	logger *slog.Logger

	mu       sync.Mutex
	surfaces []*HeadlessSurface
}

func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	return &Headless{logger: logger}
}

func (p *Headless) NewSurface(cfg SurfaceConfig) (Surface, error) {
	s := &HeadlessSurface{
		logger:    p.logger,
		center:    cfg.Center,
		zoom:      cfg.Zoom,
		baseLayer: cfg.BaseLayer,
		panorama:  &HeadlessPanorama{},
	}
	p.mu.Lock()
	p.surfaces = append(p.surfaces, s)
	p.mu.Unlock()

	p.logger.Debug("headless map surface constructed",
		"center_lat", cfg.Center.Lat,
		"center_lng", cfg.Center.Lng,
		"zoom", cfg.Zoom,
	)
	return s, nil
}

// Surfaces returns every surface constructed so far.
func (p *Headless) Surfaces() []*HeadlessSurface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*HeadlessSurface(nil), p.surfaces...)
}

// HeadlessSurface implements Surface with inspectable state.
type HeadlessSurface struct {
	logger *slog.Logger

	mu            sync.Mutex
	center        marker.LatLng
	zoom          int
	baseLayer     BaseLayer
	markers       []*HeadlessMarker
	overlayOpen   bool
	overlay       OverlayContent
	overlayAnchor string
	panorama      *HeadlessPanorama
}

func (s *HeadlessSurface) PlaceMarker(spec MarkerSpec) (MarkerHandle, error) {
	m := &HeadlessMarker{surface: s, spec: spec}
	s.mu.Lock()
	s.markers = append(s.markers, m)
	s.mu.Unlock()
	return m, nil
}

func (s *HeadlessSurface) OpenOverlay(content OverlayContent, anchorBusinessID string) {
	s.mu.Lock()
	s.overlayOpen = true
	s.overlay = content
	s.overlayAnchor = anchorBusinessID
	s.mu.Unlock()
}

func (s *HeadlessSurface) CloseOverlay() {
	s.mu.Lock()
	s.overlayOpen = false
	s.overlayAnchor = ""
	s.mu.Unlock()
}

func (s *HeadlessSurface) SetCenter(pos marker.LatLng) {
	s.mu.Lock()
	s.center = pos
	s.mu.Unlock()
}

func (s *HeadlessSurface) Center() marker.LatLng {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center
}

func (s *HeadlessSurface) SetZoom(zoom int) {
	s.mu.Lock()
	s.zoom = zoom
	s.mu.Unlock()
}

func (s *HeadlessSurface) Zoom() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

func (s *HeadlessSurface) SetBaseLayer(layer BaseLayer) {
	s.mu.Lock()
	s.baseLayer = layer
	s.mu.Unlock()
}

// BaseLayer returns the current base layer.
func (s *HeadlessSurface) BaseLayer() BaseLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseLayer
}

func (s *HeadlessSurface) Panorama() Panorama {
	return s.panorama
}

// AttachedMarkers returns the markers currently attached to the surface.
func (s *HeadlessSurface) AttachedMarkers() []*HeadlessMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*HeadlessMarker, 0, len(s.markers))
	for _, m := range s.markers {
		if !m.Detached() {
			out = append(out, m)
		}
	}
	return out
}

// OverlayState reports whether the overlay is open, with its anchor and
// content.
func (s *HeadlessSurface) OverlayState() (open bool, anchor string, content OverlayContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlayOpen, s.overlayAnchor, s.overlay
}

// StreetPanorama exposes the concrete panorama for assertions.
func (s *HeadlessSurface) StreetPanorama() *HeadlessPanorama {
	return s.panorama
}

// HeadlessMarker implements MarkerHandle and lets tests fire its events.
type HeadlessMarker struct {
	surface *HeadlessSurface
	spec    MarkerSpec

	mu       sync.Mutex
	detached bool
	onHover  func(entered bool)
	onClick  func()
}

func (m *HeadlessMarker) Detach() {
	m.mu.Lock()
	m.detached = true
	m.onHover = nil
	m.onClick = nil
	m.mu.Unlock()
}

func (m *HeadlessMarker) OnHover(fn func(entered bool)) {
	m.mu.Lock()
	m.onHover = fn
	m.mu.Unlock()
}

func (m *HeadlessMarker) OnClick(fn func()) {
	m.mu.Lock()
	m.onClick = fn
	m.mu.Unlock()
}

// Detached reports whether the marker has been detached.
func (m *HeadlessMarker) Detached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detached
}

// Spec returns the marker's placement spec.
func (m *HeadlessMarker) Spec() MarkerSpec { return m.spec }

// FireHover invokes the registered hover callback, as the real provider
// would on a pointer event. No-op after detach.
func (m *HeadlessMarker) FireHover(entered bool) {
	m.mu.Lock()
	fn := m.onHover
	m.mu.Unlock()
	if fn != nil {
		fn(entered)
	}
}

// FireClick invokes the registered click callback. No-op after detach.
func (m *HeadlessMarker) FireClick() {
	m.mu.Lock()
	fn := m.onClick
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// HeadlessPanorama implements Panorama with inspectable state.
type HeadlessPanorama struct {
	mu       sync.Mutex
	position marker.LatLng
	heading  float64
	pitch    float64
	visible  bool
}

func (p *HeadlessPanorama) SetPosition(pos marker.LatLng) {
	p.mu.Lock()
	p.position = pos
	p.mu.Unlock()
}

func (p *HeadlessPanorama) SetOrientation(heading, pitch float64) {
	p.mu.Lock()
	p.heading = heading
	p.pitch = pitch
	p.mu.Unlock()
}

func (p *HeadlessPanorama) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// State returns the panorama's current position, orientation and visibility.
func (p *HeadlessPanorama) State() (pos marker.LatLng, heading, pitch float64, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.heading, p.pitch, p.visible
}
