// Package mapview drives an interactive permit map session: it renders
// compliance markers onto a provider surface and translates hover, click
// and filter gestures into surface updates and detail lookups.
package mapview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"permitmap/internal/business/models"
	"permitmap/internal/business/service"
	"permitmap/internal/compliance"
	"permitmap/internal/mapview/loader"
	"permitmap/internal/mapview/metrics"
	"permitmap/internal/mapview/provider"
	"permitmap/internal/marker"
	dErrors "permitmap/pkg/domain-errors"
	"permitmap/pkg/requestcontext"
)

// State is the lifecycle phase of a map session.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateInitialized     State = "initialized"
	StateMarkersRendered State = "markers_rendered"
	StateDisposed        State = "disposed"
)

// DefaultCenter is the Leganes municipal hall; new surfaces open here.
var DefaultCenter = marker.LatLng{Lat: 10.7868, Lng: 122.5894}

const (
	DefaultZoom    = 14
	FocusZoom      = 18
	streetHeading  = 265
	streetPitch    = 0
	clickWindow    = 500 * time.Millisecond
	detailsTimeout = 5 * time.Second
)

// ViewState is a serializable snapshot of a session, taken under the
// session lock so every field is mutually consistent.
type ViewState struct {
	State         State                   `json:"state"`
	ProviderState loader.State            `json:"provider_state"`
	ProviderError string                  `json:"provider_error,omitempty"`
	Filter        string                  `json:"filter"`
	ViewMode      provider.ViewMode       `json:"view_mode"`
	Center        marker.LatLng           `json:"center"`
	Zoom          int                     `json:"zoom"`
	BusinessCount int                     `json:"business_count"`
	MarkerCount   int                     `json:"marker_count"`
	Markers       []marker.Marker         `json:"markers"`
	OverlayAnchor string                  `json:"overlay_anchor,omitempty"`
	PanelVisible  bool                    `json:"panel_visible"`
	SelectedID    string                  `json:"selected_business_id,omitempty"`
	Selection     *models.BusinessDetails `json:"selection,omitempty"`
	Notice        string                  `json:"notice,omitempty"`
}

type attachedMarker struct {
	data   marker.Marker
	handle provider.MarkerHandle
}

// Controller owns one map session. All exported methods are safe for
// concurrent use; provider callbacks re-enter through the same methods.
type Controller struct {
	businesses *service.BusinessService
	projector  *marker.Projector
	ld         *loader.Loader
	logger     *slog.Logger
	metrics    *metrics.Metrics

	clickWindow    time.Duration
	detailsTimeout time.Duration

	mu       sync.Mutex
	state    State
	surface  provider.Surface
	loadErr  error
	subID    int
	filter   compliance.Filter
	viewMode provider.ViewMode
	markers  []attachedMarker

	// businessCount is the size of the filtered record set, tracked
	// separately from the markers because the projector drops records
	// with unparseable coordinates.
	businessCount int

	// pending maps business ID to the single-click debounce timer; a
	// second click inside the window promotes to a double click.
	pending map[string]*time.Timer

	overlayAnchor string
	panelVisible  bool
	selectedID    string
	selection     *models.BusinessDetails
	notice        string

	// detailsSeq orders detail fetches; only the response matching the
	// latest sequence number may touch the panel.
	detailsSeq uint64
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithClickWindow overrides the double-click recognition window.
func WithClickWindow(d time.Duration) Option {
	return func(c *Controller) { c.clickWindow = d }
}

// WithDetailsTimeout bounds the background details fetch.
func WithDetailsTimeout(d time.Duration) Option {
	return func(c *Controller) { c.detailsTimeout = d }
}

// WithInitialFilter sets the compliance filter the first render uses.
func WithInitialFilter(f compliance.Filter) Option {
	return func(c *Controller) { c.filter = f }
}

func NewController(businesses *service.BusinessService, ld *loader.Loader, opts ...Option) *Controller {
	c := &Controller{
		businesses:     businesses,
		ld:             ld,
		logger:         slog.Default(),
		clickWindow:    clickWindow,
		detailsTimeout: detailsTimeout,
		state:          StateUninitialized,
		filter:         compliance.FilterAll,
		viewMode:       provider.ViewRoadmap,
		pending:        make(map[string]*time.Timer),
		subID:          -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.projector = marker.NewProjector(c.logger)
	return c
}

// Mount loads the provider and the business records concurrently, then
// creates the surface and renders the initial marker set. A provider
// load failure is not an error: the session stays uninitialized and the
// failure is reported through ViewState.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "map session already mounted")
	}
	filter := c.filter
	c.mu.Unlock()

	subID, resultCh := c.ld.EnsureLoaded()

	var (
		records []models.BusinessRecord
		res     loader.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = c.businesses.ListFiltered(gctx, filter)
		return err
	})
	g.Go(func() error {
		select {
		case res = <-resultCh:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		c.ld.Unsubscribe(subID)
		return dErrors.Wrap(err, dErrors.CodeInternal, "mounting map session")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return dErrors.New(dErrors.CodeConflict, "map session disposed during mount")
	}
	c.subID = subID
	c.businessCount = len(records)

	if res.Err != nil {
		c.loadErr = res.Err
		c.logger.Error("map provider failed to load", "error", res.Err)
		return nil
	}

	surface, err := res.Provider.NewSurface(provider.SurfaceConfig{
		Center:    DefaultCenter,
		Zoom:      DefaultZoom,
		BaseLayer: provider.LayerRoadmap,
	})
	if err != nil {
		c.loadErr = err
		c.logger.Error("map surface creation failed", "error", err)
		return nil
	}
	c.surface = surface
	c.state = StateInitialized

	now := requestcontext.Now(ctx)
	c.renderLocked(records, now)
	c.metrics.IncrementSessionsMounted()
	return nil
}

// renderLocked replaces the full marker set: every existing handle is
// detached before any new marker is placed. Caller holds c.mu.
func (c *Controller) renderLocked(records []models.BusinessRecord, now time.Time) {
	for _, t := range c.pending {
		t.Stop()
	}
	c.pending = make(map[string]*time.Timer)
	for _, am := range c.markers {
		am.handle.Detach()
	}
	c.markers = c.markers[:0]
	if c.overlayAnchor != "" {
		c.surface.CloseOverlay()
		c.overlayAnchor = ""
	}

	projected := c.projector.Project(records, now)
	for _, m := range projected {
		handle, err := c.surface.PlaceMarker(provider.MarkerSpec{
			Position: m.Position,
			Icon:     provider.StatusIcon(m.Status),
			Title:    m.Name,
		})
		if err != nil {
			c.logger.Warn("placing marker failed", "business_id", m.BusinessID, "error", err)
			continue
		}
		id := m.BusinessID
		handle.OnHover(func(entered bool) {
			if entered {
				c.HoverEnter(id)
			} else {
				c.HoverLeave(id)
			}
		})
		handle.OnClick(func() { c.Click(id) })
		c.markers = append(c.markers, attachedMarker{data: m, handle: handle})
	}
	c.state = StateMarkersRendered
	c.metrics.IncrementMarkerSetsRendered()
	c.logger.Info("markers rendered", "count", len(c.markers), "filter", c.filter.String())
}

func (c *Controller) findLocked(businessID string) (attachedMarker, bool) {
	for _, am := range c.markers {
		if am.data.BusinessID == businessID {
			return am, true
		}
	}
	return attachedMarker{}, false
}

// HoverEnter opens the summary overlay anchored at the hovered marker.
func (c *Controller) HoverEnter(businessID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateMarkersRendered {
		return
	}
	am, ok := c.findLocked(businessID)
	if !ok {
		return
	}
	c.metrics.IncrementHoverGestures()
	c.surface.OpenOverlay(provider.OverlayContent{
		BusinessID:  am.data.BusinessID,
		Name:        am.data.Name,
		Owner:       am.data.Owner,
		Address:     am.data.Address,
		Status:      am.data.Status,
		StatusColor: provider.StatusColor(am.data.Status),
	}, businessID)
	c.overlayAnchor = businessID
}

// HoverLeave closes the overlay if it is still anchored at this marker.
func (c *Controller) HoverLeave(businessID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateMarkersRendered || c.overlayAnchor != businessID {
		return
	}
	c.surface.CloseOverlay()
	c.overlayAnchor = ""
}

// Click debounces marker clicks. A lone click inside the window is a
// no-op; a second click on the same marker promotes to a double click,
// which focuses the marker and loads its details.
func (c *Controller) Click(businessID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateMarkersRendered {
		return
	}
	am, ok := c.findLocked(businessID)
	if !ok {
		return
	}
	c.metrics.IncrementClickGestures()

	if t, armed := c.pending[businessID]; armed {
		t.Stop()
		delete(c.pending, businessID)
		c.doubleClickLocked(am)
		return
	}
	c.pending[businessID] = time.AfterFunc(c.clickWindow, func() {
		c.mu.Lock()
		delete(c.pending, businessID)
		c.mu.Unlock()
	})
}

// doubleClickLocked focuses the marker and starts the details fetch.
// Caller holds c.mu.
func (c *Controller) doubleClickLocked(am attachedMarker) {
	c.metrics.IncrementDoubleClicks()
	c.surface.SetZoom(FocusZoom)
	c.surface.SetCenter(am.data.Position)
	c.surface.OpenOverlay(provider.OverlayContent{
		BusinessID:  am.data.BusinessID,
		Name:        am.data.Name,
		Owner:       am.data.Owner,
		Address:     am.data.Address,
		Status:      am.data.Status,
		StatusColor: provider.StatusColor(am.data.Status),
	}, am.data.BusinessID)
	c.overlayAnchor = am.data.BusinessID

	c.detailsSeq++
	seq := c.detailsSeq
	c.metrics.IncrementDetailsRequests()
	go c.fetchDetails(am.data.BusinessID, seq)
}

func (c *Controller) fetchDetails(businessID string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), c.detailsTimeout)
	defer cancel()
	details, err := c.businesses.GetDetails(ctx, businessID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.detailsSeq {
		c.metrics.IncrementStaleResponsesDiscarded()
		c.logger.Debug("discarding stale details response", "business_id", businessID)
		return
	}
	if c.state == StateDisposed {
		return
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			c.notice = "No detailed records are on file for this business."
		} else {
			c.notice = "Business details could not be loaded. Please try again."
		}
		c.logger.Warn("details fetch failed", "business_id", businessID, "error", err)
		return
	}
	c.selection = details
	c.selectedID = businessID
	c.panelVisible = true
	c.notice = ""
}

// ApplyFilter re-lists the records under the new compliance filter and
// replaces the rendered marker set.
func (c *Controller) ApplyFilter(ctx context.Context, filter compliance.Filter) error {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "map session disposed")
	}
	c.filter = filter
	surface := c.surface
	c.mu.Unlock()

	records, err := c.businesses.ListFiltered(ctx, filter)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return dErrors.New(dErrors.CodeConflict, "map session disposed")
	}
	c.businessCount = len(records)
	if surface == nil || c.surface == nil {
		// Provider never loaded; the filter still applies to listings.
		return nil
	}
	c.renderLocked(records, requestcontext.Now(ctx))
	return nil
}

// SetViewMode switches the base layer, or enters street view at the
// current map center.
func (c *Controller) SetViewMode(mode provider.ViewMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return dErrors.New(dErrors.CodeConflict, "map session disposed")
	}
	if c.surface == nil {
		return dErrors.New(dErrors.CodeUnavailable, "map surface not initialized")
	}
	pano := c.surface.Panorama()
	if mode == provider.ViewStreetView {
		pano.SetPosition(c.surface.Center())
		pano.SetOrientation(streetHeading, streetPitch)
		pano.SetVisible(true)
	} else {
		pano.SetVisible(false)
		c.surface.SetBaseLayer(provider.BaseLayer(mode))
	}
	c.viewMode = mode
	return nil
}

// ClosePanel dismisses the details panel and clears the selection. An
// in-flight fetch keeps running; if it is still the latest it may reopen
// the panel on resolution.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = nil
	c.selectedID = ""
	c.panelVisible = false
	c.notice = ""
}

// DismissNotice clears the transient error notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// Dispose tears the session down: timers cancelled, markers detached,
// overlay closed, loader subscription released. Idempotent.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return
	}
	for _, t := range c.pending {
		t.Stop()
	}
	c.pending = make(map[string]*time.Timer)
	for _, am := range c.markers {
		am.handle.Detach()
	}
	c.markers = nil
	if c.surface != nil && c.overlayAnchor != "" {
		c.surface.CloseOverlay()
	}
	c.overlayAnchor = ""
	if c.subID >= 0 {
		c.ld.Unsubscribe(c.subID)
		c.subID = -1
	}
	// Invalidate any in-flight details fetch.
	c.detailsSeq++
	c.state = StateDisposed
	c.metrics.IncrementSessionsDisposed()
}

// ViewState snapshots the session.
func (c *Controller) ViewState() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	vs := ViewState{
		State:         c.state,
		ProviderState: c.ld.State(),
		Filter:        c.filter.String(),
		ViewMode:      c.viewMode,
		BusinessCount: c.businessCount,
		MarkerCount:   len(c.markers),
		Markers:       make([]marker.Marker, 0, len(c.markers)),
		OverlayAnchor: c.overlayAnchor,
		PanelVisible:  c.panelVisible,
		SelectedID:    c.selectedID,
		Selection:     c.selection,
		Notice:        c.notice,
	}
	if c.loadErr != nil {
		vs.ProviderError = c.loadErr.Error()
	} else if err := c.ld.Err(); err != nil {
		vs.ProviderError = err.Error()
	}
	if c.surface != nil {
		vs.Center = c.surface.Center()
		vs.Zoom = c.surface.Zoom()
	} else {
		vs.Center = DefaultCenter
		vs.Zoom = DefaultZoom
	}
	for _, am := range c.markers {
		vs.Markers = append(vs.Markers, am.data)
	}
	return vs
}
