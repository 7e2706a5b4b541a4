package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tasquest/internal/platform/logger"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/requestcontext"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*TokenClaims, error) { return v.claims, v.err }

type stubRevocation struct {
	revoked bool
	err     error
}

func (r stubRevocation) IsRevoked(context.Context, string) (bool, error) { return r.revoked, r.err }

func TestRequireAuth(t *testing.T) {
	accountID := id.NewAccountID()
	validClaims := &TokenClaims{AccountID: accountID.String(), JTI: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}

	run := func(v TokenValidator, rc TokenRevocationChecker, header string) (*httptest.ResponseRecorder, id.AccountID) {
		var seen id.AccountID
		h := RequireAuth(v, rc, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.AccountID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w, seen
	}

	t.Run("valid token reaches handler with account id", func(t *testing.T) {
		w, seen := run(stubValidator{claims: validClaims}, stubRevocation{}, "Bearer good")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, accountID, seen)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		w, _ := run(stubValidator{claims: validClaims}, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		w, _ := run(stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}, nil, "Bearer bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token is unauthorized", func(t *testing.T) {
		w, _ := run(stubValidator{claims: validClaims}, stubRevocation{revoked: true}, "Bearer good")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revocation backend failure is service unavailable", func(t *testing.T) {
		w, _ := run(stubValidator{claims: validClaims}, stubRevocation{err: errors.New("redis down")}, "Bearer good")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
