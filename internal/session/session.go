// Package session drives the device-side sign-in lifecycle:
// Unauthenticated -> Authenticating -> Authenticated -> Unauthenticated.
// Once authenticated it owns the account's AppData for the presentation
// layer.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"tasquest/internal/appdata/models"
	identity "tasquest/internal/identity/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the Authentication Service contract.
type Authenticator interface {
	CreateAccount(ctx context.Context, email, password string) (*identity.AccountIdentity, error)
	SignIn(ctx context.Context, email, password string) (*identity.AccountIdentity, error)
	AuthenticatedIdentity(ctx context.Context) (*identity.AccountIdentity, error)
	SignOut(ctx context.Context) error
}

// DataFacade is the Data Access Facade contract.
type DataFacade interface {
	Fetch(ctx context.Context, accountID id.AccountID) (*models.AppData, error)
	Save(ctx context.Context, accountID id.AccountID, data *models.AppData) error
	Bootstrap(ctx context.Context, who identity.AccountIdentity) (*models.AppData, error)
}

// Session allows one in-flight transition at a time; a second caller gets a
// conflict rather than waiting.
type Session struct {
	auth   Authenticator
	data   DataFacade
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	identity *identity.AccountIdentity
	appData  *models.AppData

	saves sync.WaitGroup
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(auth Authenticator, data DataFacade, opts ...Option) *Session {
	s := &Session{auth: auth, data: data, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns a copy of the signed-in identity, or nil.
func (s *Session) Identity() *identity.AccountIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	who := *s.identity
	return &who
}

// AppData returns the document owned by the session. The caller is its only
// mutator until SignOut.
func (s *Session) AppData() *models.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appData
}

// SignIn authenticates and loads the account's AppData.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func(ctx context.Context) (*identity.AccountIdentity, error) {
		return s.auth.SignIn(ctx, email, password)
	})
}

// CreateAccount registers, signs in and bootstraps the new account's AppData.
func (s *Session) CreateAccount(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func(ctx context.Context) (*identity.AccountIdentity, error) {
		return s.auth.CreateAccount(ctx, email, password)
	})
}

// SignInOrCreate tries to sign in and falls back to creating the account
// when the credentials are not recognised. If the email is already taken the
// original sign-in failure is reported.
func (s *Session) SignInOrCreate(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, func(ctx context.Context) (*identity.AccountIdentity, error) {
		who, err := s.auth.SignIn(ctx, email, password)
		if err == nil || !dErrors.HasCode(err, dErrors.CodeInvalidCredentials) {
			return who, err
		}
		created, createErr := s.auth.CreateAccount(ctx, email, password)
		if dErrors.HasCode(createErr, dErrors.CodeAccountExists) {
			return nil, err
		}
		return created, createErr
	})
}

// Resume restores a persisted session. It reports false when the device has
// no active session.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	if s.State() == Authenticated {
		return true, nil
	}
	err := s.authenticate(ctx, s.auth.AuthenticatedIdentity)
	switch {
	case errors.Is(err, errNoIdentity):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

var errNoIdentity = dErrors.New(dErrors.CodeUnauthorized, "no active session")

func (s *Session) authenticate(ctx context.Context, resolve func(context.Context) (*identity.AccountIdentity, error)) error {
	if err := s.begin(); err != nil {
		return err
	}

	who, err := resolve(ctx)
	if err == nil && who == nil {
		err = errNoIdentity
	}
	if err != nil {
		s.finish(nil, nil)
		return err
	}

	doc, err := s.load(ctx, *who)
	if err != nil {
		s.logger.WarnContext(ctx, "app data load failed after sign in",
			"account_id", who.ID.String(), "error", err)
		s.finish(nil, nil)
		return err
	}
	s.finish(who, doc)
	s.logger.InfoContext(ctx, "session authenticated", "account_id", who.ID.String())
	return nil
}

func (s *Session) load(ctx context.Context, who identity.AccountIdentity) (*models.AppData, error) {
	doc, err := s.data.Fetch(ctx, who.ID)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		return doc, nil
	}
	return s.data.Bootstrap(ctx, who)
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Authenticating:
		return dErrors.New(dErrors.CodeConflict, "authentication already in progress")
	case Authenticated:
		return dErrors.New(dErrors.CodeConflict, "already signed in")
	}
	s.state = Authenticating
	return nil
}

func (s *Session) finish(who *identity.AccountIdentity, doc *models.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity, s.appData = who, doc
	if who == nil {
		s.state = Unauthenticated
		return
	}
	s.state = Authenticated
}

// Save writes the current AppData and waits for the result.
func (s *Session) Save(ctx context.Context) error {
	accountID, snapshot, err := s.snapshot()
	if err != nil {
		return err
	}
	return s.save(ctx, accountID, snapshot)
}

// SaveAsync writes a snapshot of the current AppData in the background.
// Failures are logged and delivered once on the returned channel, which the
// caller may ignore.
func (s *Session) SaveAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	accountID, snapshot, err := s.snapshot()
	if err != nil {
		done <- err
		close(done)
		return done
	}

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		defer close(done)
		err := s.save(ctx, accountID, snapshot)
		if err != nil {
			s.logger.WarnContext(ctx, "background save failed",
				"account_id", accountID.String(), "error", err)
		}
		done <- err
	}()
	return done
}

func (s *Session) snapshot() (id.AccountID, *models.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated {
		return id.AccountID{}, nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	return s.identity.ID, s.appData.Clone(), nil
}

func (s *Session) save(ctx context.Context, accountID id.AccountID, snapshot *models.AppData) error {
	if err := s.data.Save(ctx, accountID, snapshot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appData != nil && s.identity != nil && s.identity.ID == accountID && snapshot.Version > s.appData.Version {
		s.appData.Version = snapshot.Version
	}
	return nil
}

// SignOut waits for pending background saves, ends the provider session and
// discards the identity and AppData. The local state is cleared even when the
// provider call fails.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Authenticating {
		s.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "authentication in progress")
	}
	s.mu.Unlock()

	s.saves.Wait()
	err := s.auth.SignOut(ctx)
	s.finish(nil, nil)
	return err
}
