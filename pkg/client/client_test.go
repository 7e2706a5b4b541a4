package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/testutil/apitest"
)

type ClientSuite struct {
	suite.Suite
	api    *httptest.Server
	client *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.api = apitest.NewServer(s.T())
	s.client = New(s.api.URL, WithTimeout(5*time.Second))
}

func (s *ClientSuite) TestAuthentication() {
	ctx := context.Background()
	auth := s.client.Auth()

	s.Run("no session yields no identity", func() {
		who, err := auth.AuthenticatedIdentity(ctx)
		s.Require().NoError(err)
		s.Nil(who)
	})

	s.Run("create account returns the provider identity", func() {
		who, err := auth.CreateAccount(ctx, "a@b.com", "secret1")
		s.Require().NoError(err)
		s.False(who.ID.IsNil())
		s.Equal("a@b.com", who.Email)
		s.Nil(who.AvatarRef)

		current, err := auth.AuthenticatedIdentity(ctx)
		s.Require().NoError(err)
		s.Require().NotNil(current)
		s.Equal(who.ID, current.ID)
	})

	s.Run("duplicate email is account_exists", func() {
		_, err := auth.CreateAccount(ctx, "a@b.com", "secret1")
		s.True(dErrors.HasCode(err, dErrors.CodeAccountExists), "got %v", err)
	})

	s.Run("short password is invalid_credentials", func() {
		_, err := auth.CreateAccount(ctx, "c@d.com", "12345")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials), "got %v", err)
	})

	s.Run("wrong password and unknown email fail the same way", func() {
		_, wrong := auth.SignIn(ctx, "a@b.com", "nope-nope")
		_, unknown := auth.SignIn(ctx, "x@y.com", "secret1")
		s.True(dErrors.HasCode(wrong, dErrors.CodeInvalidCredentials))
		s.True(dErrors.HasCode(unknown, dErrors.CodeInvalidCredentials))
		s.Equal(dErrors.MessageOf(wrong), dErrors.MessageOf(unknown))
	})

	s.Run("avatar can be set and cleared", func() {
		ref := "avatars/a.png"
		who, err := auth.UpdateAvatar(ctx, &ref)
		s.Require().NoError(err)
		s.Require().NotNil(who.AvatarRef)
		s.Equal(ref, *who.AvatarRef)

		who, err = auth.UpdateAvatar(ctx, nil)
		s.Require().NoError(err)
		s.Nil(who.AvatarRef)
	})

	s.Run("sign out forgets the session", func() {
		s.Require().NoError(auth.SignOut(ctx))
		who, err := auth.AuthenticatedIdentity(ctx)
		s.Require().NoError(err)
		s.Nil(who)
	})

	s.Run("sign in restores a session", func() {
		who, err := auth.SignIn(ctx, "A@B.com", "secret1")
		s.Require().NoError(err)
		s.Equal("a@b.com", who.Email)
	})
}

func (s *ClientSuite) TestRevokedTokenIsDiscarded() {
	ctx := context.Background()
	store := NewMemoryTokenStore()
	first := New(s.api.URL, WithTokenStore(store))
	_, err := first.Auth().CreateAccount(ctx, "r@b.com", "secret1")
	s.Require().NoError(err)
	sess, err := store.Load()
	s.Require().NoError(err)

	// Revoke server-side through a second client sharing the token.
	other := NewMemoryTokenStore()
	s.Require().NoError(other.Save(*sess))
	s.Require().NoError(New(s.api.URL, WithTokenStore(other)).Auth().SignOut(ctx))

	who, err := first.Auth().AuthenticatedIdentity(ctx)
	s.Require().NoError(err)
	s.Nil(who)
	remaining, err := store.Load()
	s.Require().NoError(err)
	s.Nil(remaining)
}

func (s *ClientSuite) TestData() {
	ctx := context.Background()
	who, err := s.client.Auth().CreateAccount(ctx, "jane.doe@b.com", "secret1")
	s.Require().NoError(err)
	data := s.client.Data()

	s.Run("fetch for a new user is nil without error", func() {
		got, err := data.Fetch(ctx, who.ID)
		s.Require().NoError(err)
		s.Nil(got)
	})

	var goal models.Goal
	s.Run("bootstrap then save then fetch", func() {
		doc, err := data.Bootstrap(ctx, *who)
		s.Require().NoError(err)
		s.Equal("Jane Doe", doc.Username)
		s.Len(doc.Statuses, 3)

		goal, err = models.NewGoal("Learn X", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Require().NoError(doc.AddGoal(doc.Statuses[0].ID, goal))
		s.Require().NoError(data.Save(ctx, who.ID, doc))

		got, err := data.Fetch(ctx, who.ID)
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal("Learn X", got.Statuses[0].Goals[0].Name)
	})

	s.Run("toggle star twice restores the flag", func() {
		toggled, err := data.ToggleStar(ctx, who.ID, goal.ID)
		s.Require().NoError(err)
		s.True(toggled.IsStarred)
		toggled, err = data.ToggleStar(ctx, who.ID, goal.ID)
		s.Require().NoError(err)
		s.False(toggled.IsStarred)
	})

	s.Run("unknown goal is not_found", func() {
		_, err := data.ToggleStar(ctx, who.ID, id.NewGoalID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
	})

	s.Run("another account id is rejected locally", func() {
		_, err := data.Fetch(ctx, id.NewAccountID())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("invalid documents are rejected", func() {
		doc, err := data.Bootstrap(ctx, *who)
		s.Require().NoError(err)
		doc.Statuses[0].Name = " "
		err = data.Save(ctx, who.ID, doc)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
	})
}

func TestTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctx := context.Background()
	store := NewMemoryTokenStore()
	accountID := id.NewAccountID()
	require.NoError(t, store.Save(Session{Token: "t", ExpiresAt: time.Now().Add(time.Hour), AccountID: accountID.String()}))
	c := New(url, WithTokenStore(store), WithTimeout(time.Second))

	t.Run("auth calls are service_unavailable", func(t *testing.T) {
		_, err := c.Auth().SignIn(ctx, "a@b.com", "secret1")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeServiceUnavailable), "got %v", err)
		_, err = c.Auth().AuthenticatedIdentity(ctx)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeServiceUnavailable), "got %v", err)
	})

	t.Run("data calls are storage_unavailable", func(t *testing.T) {
		_, err := c.Data().Fetch(ctx, accountID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable), "got %v", err)
		data, err := models.NewAppData("Jane")
		require.NoError(t, err)
		err = c.Data().Save(ctx, accountID, data)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable), "got %v", err)
	})

	t.Run("sign out still clears the local token", func(t *testing.T) {
		require.NoError(t, c.Auth().SignOut(ctx))
		sess, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, sess)
	})
}

func TestResponsesWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Auth().SignIn(context.Background(), "a@b.com", "secret1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeServiceUnavailable), "got %v", err)
}

func TestDataResponsesWithoutEnvelope(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusServiceUnavailable)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		code := int(status.Load())
		http.Error(w, http.StatusText(code), code)
	}))
	defer srv.Close()

	ctx := context.Background()
	store := NewMemoryTokenStore()
	accountID := id.NewAccountID()
	require.NoError(t, store.Save(Session{Token: "t", ExpiresAt: time.Now().Add(time.Hour), AccountID: accountID.String()}))
	c := New(srv.URL, WithTokenStore(store))

	_, err := c.Data().Fetch(ctx, accountID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable), "got %v", err)

	status.Store(http.StatusGatewayTimeout)
	_, err = c.Data().ToggleStar(ctx, accountID, id.NewGoalID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorageUnavailable), "got %v", err)

	status.Store(http.StatusInternalServerError)
	_, err = c.Data().Fetch(ctx, accountID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal), "got %v", err)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasquest", "session.yaml")
	store := NewFileTokenStore(path)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := Session{
		Token:     "token-value",
		ExpiresAt: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
		AccountID: id.NewAccountID().String(),
		Email:     "a@b.com",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Token, got.Token)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	assert.Equal(t, want.AccountID, got.AccountID)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpiredSessionIsIgnored(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(Session{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}))

	who, err := New("http://127.0.0.1:1", WithTokenStore(store)).Auth().AuthenticatedIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, who)
}

func TestDefaultSessionPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultSessionPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/tasquest/session.yaml", path)
}
