// Package apitest runs the full TasQuest HTTP API on in-memory stores for
// client-side tests.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appdatahandler "tasquest/internal/appdata/handler"
	appdataservice "tasquest/internal/appdata/service"
	"tasquest/internal/appdata/store/document"
	identityhandler "tasquest/internal/identity/handler"
	identityservice "tasquest/internal/identity/service"
	"tasquest/internal/identity/store/account"
	"tasquest/internal/identity/store/revocation"
	jwttoken "tasquest/internal/jwt_token"
	"tasquest/internal/platform/logger"
	httptransport "tasquest/internal/transport/http"
	authmw "tasquest/pkg/platform/middleware/auth"
)

// NewServer starts the API and closes it when the test ends.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.Discard()
	jwtService := jwttoken.NewJWTService("apitest-signing-key", "tasquest-test")
	trl := revocation.NewInMemoryTRL(nil)
	requireAuth := authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), trl, log)

	identitySvc, err := identityservice.New(account.NewInMemoryStore(), jwtService, trl, time.Hour,
		identityservice.WithLogger(log))
	require.NoError(t, err)
	appdataSvc, err := appdataservice.New(document.NewInMemoryStore(), appdataservice.WithLogger(log))
	require.NoError(t, err)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: log,
		Components: []httptransport.Registrar{
			identityhandler.New(identitySvc, log, requireAuth, nil),
			appdatahandler.New(appdataSvc, log, requireAuth),
		},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}
