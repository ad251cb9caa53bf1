package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsMounted         prometheus.Counter
	SessionsDisposed        prometheus.Counter
	MarkerSetsRendered      prometheus.Counter
	HoverGestures           prometheus.Counter
	ClickGestures           prometheus.Counter
	DoubleClicks            prometheus.Counter
	DetailsRequests         prometheus.Counter
	StaleResponsesDiscarded prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SessionsMounted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_sessions_mounted_total",
			Help: "Total number of map view sessions mounted",
		}),
		SessionsDisposed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_sessions_disposed_total",
			Help: "Total number of map view sessions disposed",
		}),
		MarkerSetsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_marker_sets_rendered_total",
			Help: "Total number of full marker set replacements rendered",
		}),
		HoverGestures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_hover_gestures_total",
			Help: "Total number of marker hover gestures handled",
		}),
		ClickGestures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_click_gestures_total",
			Help: "Total number of marker click gestures handled",
		}),
		DoubleClicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_double_clicks_total",
			Help: "Total number of recognized marker double clicks",
		}),
		DetailsRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_details_requests_total",
			Help: "Total number of business details fetches triggered by gestures",
		}),
		StaleResponsesDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_mapview_stale_responses_discarded_total",
			Help: "Total number of details responses discarded because a newer request superseded them",
		}),
	}
}

func (m *Metrics) IncrementSessionsMounted() {
	if m == nil {
		return
	}
	m.SessionsMounted.Inc()
}

func (m *Metrics) IncrementSessionsDisposed() {
	if m == nil {
		return
	}
	m.SessionsDisposed.Inc()
}

func (m *Metrics) IncrementMarkerSetsRendered() {
	if m == nil {
		return
	}
	m.MarkerSetsRendered.Inc()
}

func (m *Metrics) IncrementHoverGestures() {
	if m == nil {
		return
	}
	m.HoverGestures.Inc()
}

func (m *Metrics) IncrementClickGestures() {
	if m == nil {
		return
	}
	m.ClickGestures.Inc()
}

func (m *Metrics) IncrementDoubleClicks() {
	if m == nil {
		return
	}
	m.DoubleClicks.Inc()
}

func (m *Metrics) IncrementDetailsRequests() {
	if m == nil {
		return
	}
	m.DetailsRequests.Inc()
}

func (m *Metrics) IncrementStaleResponsesDiscarded() {
	if m == nil {
		return
	}
	m.StaleResponsesDiscarded.Inc()
}
