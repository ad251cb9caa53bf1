package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"permitmap/internal/business/models"
	"permitmap/internal/business/service"
	"permitmap/internal/compliance"
	"permitmap/internal/marker"
	dErrors "permitmap/pkg/domain-errors"
	"permitmap/pkg/platform/httputil"
	"permitmap/pkg/requestcontext"
)

// Service defines the interface for business queries.
type Service interface {
	ListAll(ctx context.Context) ([]models.BusinessRecord, error)
	ListFiltered(ctx context.Context, filter compliance.Filter) ([]models.BusinessRecord, error)
	StatusCounts(ctx context.Context) (service.StatusCounts, error)
	GetDetails(ctx context.Context, businessID string) (*models.BusinessDetails, error)
}

// Handler wires business query endpoints to the business service.
type Handler struct {
	service   Service
	projector *marker.Projector
	logger    *slog.Logger
}

// New constructs a business handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		projector: marker.NewProjector(logger),
		logger:    logger,
	}
}

// Register mounts business endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/businesses", h.HandleList)
	r.Get("/businesses/summary", h.HandleSummary)
	r.Get("/businesses/{businessID}/details", h.HandleDetails)
	r.Get("/markers", h.HandleMarkers)
}

type recordResponse struct {
	models.BusinessRecord
	Compliance compliance.Status `json:"compliance"`
}

type listResponse struct {
	Businesses []recordResponse `json:"businesses"`
	Count      int              `json:"count"`
}

// HandleList handles GET /businesses requests, optionally filtered by
// the compliance query parameter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := compliance.ParseFilter(r.URL.Query().Get("compliance"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ListFiltered(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "business listing failed",
			"request_id", requestID,
			"filter", filter.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	resp := listResponse{Businesses: make([]recordResponse, 0, len(records)), Count: len(records)}
	for _, rec := range records {
		resp.Businesses = append(resp.Businesses, recordResponse{
			BusinessRecord: rec,
			Compliance:     compliance.Classify(rec, now),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSummary handles GET /businesses/summary requests.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.service.StatusCounts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "business summary failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

// HandleDetails handles GET /businesses/{businessID}/details requests.
func (h *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	businessID := chi.URLParam(r, "businessID")
	details, err := h.service.GetDetails(ctx, businessID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "business details lookup failed",
				"request_id", requestID,
				"business_id", businessID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "business details served",
		"request_id", requestID,
		"business_id", businessID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, details)
}

type markersResponse struct {
	Markers []marker.Marker `json:"markers"`
	Count   int             `json:"count"`
}

// HandleMarkers handles GET /markers requests: the filtered business
// records projected to map markers.
func (h *Handler) HandleMarkers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := compliance.ParseFilter(r.URL.Query().Get("compliance"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ListFiltered(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "marker projection failed",
			"request_id", requestcontext.RequestID(ctx),
			"filter", filter.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	markers := h.projector.Project(records, requestcontext.Now(ctx))
	httputil.WriteJSON(w, http.StatusOK, markersResponse{Markers: markers, Count: len(markers)})
}
