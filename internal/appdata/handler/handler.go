package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/platform/httputil"
	"tasquest/pkg/requestcontext"
)

// Service defines the facade operations exposed over HTTP.
type Service interface {
	Fetch(ctx context.Context, accountID id.AccountID) (*models.AppData, error)
	Save(ctx context.Context, accountID id.AccountID, data *models.AppData) error
	ToggleStar(ctx context.Context, accountID id.AccountID, goalID id.GoalID) (*models.Goal, error)
}

type Handler struct {
	svc         Service
	logger      *slog.Logger
	requireAuth func(http.Handler) http.Handler
}

func New(svc Service, logger *slog.Logger, requireAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{svc: svc, logger: logger, requireAuth: requireAuth}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/v1/appdata", h.handleFetch)
		r.Put("/v1/appdata", h.handleSave)
		r.Post("/v1/appdata/goals/{goalID}/star", h.handleToggleStar)
	})
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.svc.Fetch(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		h.fail(ctx, w, err, "fetch app data failed")
		return
	}
	if data == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no app data for account"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data models.AppData
	if err := httputil.DecodeJSON(r, &data); err != nil {
		h.fail(ctx, w, err, "invalid app data body")
		return
	}
	if err := h.svc.Save(ctx, requestcontext.AccountID(ctx), &data); err != nil {
		h.fail(ctx, w, err, "save app data failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggleStar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	goalID, err := id.ParseGoalID(chi.URLParam(r, "goalID"))
	if err != nil {
		h.fail(ctx, w, err, "invalid goal id")
		return
	}
	goal, err := h.svc.ToggleStar(ctx, requestcontext.AccountID(ctx), goalID)
	if err != nil {
		h.fail(ctx, w, err, "toggle star failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, goal)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := requestcontext.RequestID(ctx)
	code, ok := dErrors.CodeOf(err)
	switch {
	case !ok || code == dErrors.CodeInternal || code == dErrors.CodeStorageUnavailable:
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
	default:
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestID)
	}
	httputil.WriteError(w, err)
}
