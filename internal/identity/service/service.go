package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tasquest/internal/audit"
	"tasquest/internal/identity/device"
	"tasquest/internal/identity/models"
	"tasquest/internal/identity/secrets"
	jwttoken "tasquest/internal/jwt_token"
	"tasquest/internal/platform/metrics"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/platform/sentinel"
	"tasquest/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AccountStore,TokenIssuer,RevocationList,AuditPublisher

type AccountStore interface {
	CreateIfEmailAvailable(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Execute(ctx context.Context, accountID id.AccountID, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error)
}

type TokenIssuer interface {
	GenerateSessionToken(accountID id.AccountID, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the identity provider: it owns account records, password
// verification, session token issuance and sign-out revocation.
type Service struct {
	accounts AccountStore
	tokens   TokenIssuer
	trl      RevocationList
	tokenTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func New(accounts AccountStore, tokens TokenIssuer, trl RevocationList, tokenTTL time.Duration, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if trl == nil {
		return nil, errors.New("revocation list is required")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	svc := &Service{
		accounts: accounts,
		tokens:   tokens,
		trl:      trl,
		tokenTTL: tokenTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateAccount registers a new account and signs it in.
func (s *Service) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.SignInResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	account, err := models.NewAccount(id.NewAccountID(), req.Email, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build account")
	}

	if err := s.accounts.CreateIfEmailAvailable(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeAccountExists, "an account with this email already exists")
		}
		s.logger.ErrorContext(ctx, "failed to create account", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeServiceUnavailable, "failed to create account")
	}

	result, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementAccountsCreated()
	}
	s.emit(ctx, audit.Event{
		Action:    audit.ActionAccountCreated,
		AccountID: account.ID,
		Email:     account.Email,
		Device:    result.Device,
	})
	s.logger.InfoContext(ctx, "account created", "account_id", account.ID.String())
	return result, nil
}

// SignIn verifies credentials. Unknown emails and wrong passwords fail the
// same way and take the same bcrypt cost.
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.observeSignIn("invalid_credentials")
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.signInFailed(ctx, id.AccountID{}, req.Email, "unknown_email")
			return nil, secrets.BurnVerify(req.Password)
		}
		s.logger.ErrorContext(ctx, "failed to look up account", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeServiceUnavailable, "failed to sign in")
	}

	if err := secrets.Verify(req.Password, account.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidCredentials) {
			s.signInFailed(ctx, account.ID, req.Email, "password_mismatch")
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign in")
	}

	result, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.observeSignIn("success")
	s.emit(ctx, audit.Event{
		Action:    audit.ActionSignedIn,
		AccountID: account.ID,
		Email:     account.Email,
		Device:    result.Device,
	})
	return result, nil
}

// Identity resolves the account behind a validated session token.
func (s *Service) Identity(ctx context.Context, accountID id.AccountID) (*models.AccountIdentity, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account ID required")
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeServiceUnavailable, "failed to load account")
	}
	return account.Identity(), nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "token ID required")
	}
	ttl := expiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		// Already expired; nothing left to revoke.
		return nil
	}
	if err := s.trl.RevokeToken(ctx, jti, ttl); err != nil {
		s.logger.ErrorContext(ctx, "failed to add token to revocation list", "error", err, "jti", jti)
		return dErrors.Wrap(err, dErrors.CodeServiceUnavailable, "failed to sign out")
	}

	if s.metrics != nil {
		s.metrics.IncrementSignOuts()
	}
	s.emit(ctx, audit.Event{
		Action:    audit.ActionSignedOut,
		AccountID: requestcontext.AccountID(ctx),
	})
	return nil
}

// UpdateProfile sets or clears the avatar reference.
func (s *Service) UpdateProfile(ctx context.Context, accountID id.AccountID, req *models.UpdateProfileRequest) (*models.AccountIdentity, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account ID required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	account, err := s.accounts.Execute(ctx, accountID,
		func(*models.Account) error { return nil },
		func(a *models.Account) { a.ApplyAvatar(req.AvatarRef, now) },
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeServiceUnavailable, "failed to update profile")
	}

	s.emit(ctx, audit.Event{Action: audit.ActionProfileUpdated, AccountID: accountID})
	return account.Identity(), nil
}

func (s *Service) issueSession(ctx context.Context, account *models.Account) (*models.SignInResult, error) {
	issued, err := s.tokens.GenerateSessionToken(account.ID, s.tokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue session token", "error", err, "account_id", account.ID.String())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}
	return &models.SignInResult{
		Identity:  *account.Identity(),
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Device:    device.Label(requestcontext.UserAgent(ctx)),
	}, nil
}

func (s *Service) signInFailed(ctx context.Context, accountID id.AccountID, email, reason string) {
	s.observeSignIn("invalid_credentials")
	s.logger.WarnContext(ctx, "sign in failed",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Action:    audit.ActionSignInFailed,
		AccountID: accountID,
		Email:     email,
		Reason:    reason,
	})
}

func (s *Service) observeSignIn(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveSignIn(outcome)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "error", err, "action", event.Action)
	}
}
