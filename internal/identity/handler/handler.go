package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/platform/httputil"
	"tasquest/pkg/requestcontext"
)

// Service defines the identity operations exposed over HTTP.
type Service interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.SignInResult, error)
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResult, error)
	Identity(ctx context.Context, accountID id.AccountID) (*models.AccountIdentity, error)
	SignOut(ctx context.Context, jti string, expiresAt time.Time) error
	UpdateProfile(ctx context.Context, accountID id.AccountID, req *models.UpdateProfileRequest) (*models.AccountIdentity, error)
}

type Handler struct {
	svc         Service
	logger      *slog.Logger
	requireAuth func(http.Handler) http.Handler
	throttle    func(http.Handler) http.Handler
}

// New builds the identity handler. throttle guards the credential endpoints
// and may be nil.
func New(svc Service, logger *slog.Logger, requireAuth, throttle func(http.Handler) http.Handler) *Handler {
	return &Handler{svc: svc, logger: logger, requireAuth: requireAuth, throttle: throttle}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.throttle != nil {
			r.Use(h.throttle)
		}
		r.Post("/v1/accounts", h.handleCreateAccount)
		r.Post("/v1/sessions", h.handleSignIn)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/v1/me", h.handleMe)
		r.Patch("/v1/me", h.handleUpdateProfile)
		r.Delete("/v1/sessions/current", h.handleSignOut)
	})
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid create account request")
		return
	}
	result, err := h.svc.CreateAccount(ctx, &req)
	if err != nil {
		h.fail(ctx, w, err, "create account failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.SignInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid sign in request")
		return
	}
	result, err := h.svc.SignIn(ctx, &req)
	if err != nil {
		h.fail(ctx, w, err, "sign in failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := h.svc.Identity(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		// A token for a deleted account is no longer a session.
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			err = dErrors.New(dErrors.CodeUnauthorized, "session no longer valid")
		}
		h.fail(ctx, w, err, "identity lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid update profile request")
		return
	}
	identity, err := h.svc.UpdateProfile(ctx, requestcontext.AccountID(ctx), &req)
	if err != nil {
		h.fail(ctx, w, err, "update profile failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, identity)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.SignOut(ctx, requestcontext.TokenID(ctx), requestcontext.TokenExpiresAt(ctx)); err != nil {
		h.fail(ctx, w, err, "sign out failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := requestcontext.RequestID(ctx)
	if code, ok := dErrors.CodeOf(err); !ok || code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestID)
	}
	httputil.WriteError(w, err)
}
