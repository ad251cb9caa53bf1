package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"permitmap/internal/compliance"
	"permitmap/internal/mapview"
	"permitmap/internal/mapview/provider"
	"permitmap/internal/mapview/session"
	dErrors "permitmap/pkg/domain-errors"
	"permitmap/pkg/platform/httputil"
	"permitmap/pkg/requestcontext"
)

// Sessions defines the interface for the session manager.
type Sessions interface {
	Mount(ctx context.Context, filter compliance.Filter) (string, *mapview.Controller, error)
	Get(sessionID string) (*mapview.Controller, error)
	Dispose(sessionID string) error
}

var _ Sessions = (*session.Manager)(nil)

// Handler wires map session endpoints to the session manager.
type Handler struct {
	sessions Sessions
	logger   *slog.Logger
}

// New constructs a map session handler.
func New(sessions Sessions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, logger: logger}
}

// Register mounts map session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/map/sessions", func(r chi.Router) {
		r.Post("/", h.HandleMount)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleState)
			r.Delete("/", h.HandleDispose)
			r.Put("/filter", h.HandleFilter)
			r.Put("/view", h.HandleViewMode)
			r.Post("/markers/{businessID}/hover", h.HandleHover)
			r.Post("/markers/{businessID}/click", h.HandleClick)
			r.Post("/panel/close", h.HandleClosePanel)
		})
	})
}

type mountRequest struct {
	Filter string `json:"filter"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	mapview.ViewState
}

// HandleMount handles POST /map/sessions requests.
func (h *Handler) HandleMount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[mountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	filter, err := compliance.ParseFilter(req.Filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, ctrl, err := h.sessions.Mount(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "map session mount failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{SessionID: id, ViewState: ctrl.ViewState()})
}

// HandleState handles GET /map/sessions/{sessionID} requests.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}

// HandleDispose handles DELETE /map/sessions/{sessionID} requests.
func (h *Handler) HandleDispose(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.Dispose(sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type filterRequest struct {
	Filter string `json:"filter"`
}

// HandleFilter handles PUT /map/sessions/{sessionID}/filter requests.
func (h *Handler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[filterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	filter, err := compliance.ParseFilter(req.Filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := ctrl.ApplyFilter(ctx, filter); err != nil {
		h.logger.ErrorContext(ctx, "filter change failed",
			"request_id", requestID,
			"session_id", sessionID,
			"filter", filter.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}

type viewModeRequest struct {
	Mode string `json:"mode"`
}

// HandleViewMode handles PUT /map/sessions/{sessionID}/view requests.
func (h *Handler) HandleViewMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sessionID := chi.URLParam(r, "sessionID")

	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[viewModeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	mode, err := provider.ParseViewMode(req.Mode)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := ctrl.SetViewMode(mode); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}

type hoverRequest struct {
	Entered bool `json:"entered"`
}

// HandleHover handles POST /map/sessions/{sessionID}/markers/{businessID}/hover
// requests.
func (h *Handler) HandleHover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")
	businessID := chi.URLParam(r, "businessID")

	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[hoverRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if req.Entered {
		ctrl.HoverEnter(businessID)
	} else {
		ctrl.HoverLeave(businessID)
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}

// HandleClick handles POST /map/sessions/{sessionID}/markers/{businessID}/click
// requests. Clicks are debounced; the response reflects the state at accept
// time, not the outcome of a possible double click.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	businessID := chi.URLParam(r, "businessID")

	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ctrl.ViewState().State == mapview.StateDisposed {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "map session disposed"))
		return
	}
	ctrl.Click(businessID)
	httputil.WriteJSON(w, http.StatusAccepted, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}

// HandleClosePanel handles POST /map/sessions/{sessionID}/panel/close requests.
func (h *Handler) HandleClosePanel(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctrl, err := h.sessions.Get(sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ctrl.ClosePanel()
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, ViewState: ctrl.ViewState()})
}
