package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tasquest/internal/appdata/models"
	identity "tasquest/internal/identity/models"
	"tasquest/internal/platform/metrics"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/email"
	"tasquest/pkg/platform/circuit"
	"tasquest/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DocumentStore

// DocumentStore persists one AppData document per account.
type DocumentStore interface {
	Load(ctx context.Context, accountID id.AccountID) (*models.AppData, error)
	Save(ctx context.Context, accountID id.AccountID, data *models.AppData) (int64, error)
	Execute(ctx context.Context, accountID id.AccountID, mutate func(*models.AppData) error) (*models.AppData, error)
}

const defaultTimeout = 3 * time.Second

// Service is the data access facade: it loads and stores an account's
// AppData with a per-call timeout and fails fast through a circuit breaker
// while the store is unhealthy.
type Service struct {
	store   DocumentStore
	timeout time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
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

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store DocumentStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("document store is required")
	}
	svc := &Service{
		store:   store,
		timeout: defaultTimeout,
		breaker: circuit.New("appdata-store"),
		logger:  slog.Default(),
		tracer:  otel.Tracer("tasquest/appdata"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Fetch returns the account's AppData, or nil with no error when the account
// has never saved any.
func (s *Service) Fetch(ctx context.Context, accountID id.AccountID) (*models.AppData, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account ID required")
	}
	var data *models.AppData
	err := s.call(ctx, "fetch", accountID, func(ctx context.Context) error {
		var err error
		data, err = s.store.Load(ctx, accountID)
		return err
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save validates and writes the whole document. On success data.Version
// carries the stored version.
func (s *Service) Save(ctx context.Context, accountID id.AccountID, data *models.AppData) error {
	if accountID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "account ID required")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	var version int64
	err := s.call(ctx, "save", accountID, func(ctx context.Context) error {
		var err error
		version, err = s.store.Save(ctx, accountID, data)
		return err
	})
	if err != nil {
		return err
	}
	data.Version = version
	return nil
}

// ToggleStar flips a goal's star inside the store so concurrent commands for
// one account do not overwrite each other.
func (s *Service) ToggleStar(ctx context.Context, accountID id.AccountID, goalID id.GoalID) (*models.Goal, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "account ID required")
	}
	var goal models.Goal
	err := s.call(ctx, "toggle_star", accountID, func(ctx context.Context) error {
		_, err := s.store.Execute(ctx, accountID, func(data *models.AppData) error {
			if err := data.ToggleStar(goalID); err != nil {
				return err
			}
			found, err := data.FindGoal(goalID)
			goal = found
			return err
		})
		return err
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no app data for account")
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Bootstrap builds the starter document for a new account. It is not
// persisted until the caller saves it.
func (s *Service) Bootstrap(_ context.Context, who identity.AccountIdentity) (*models.AppData, error) {
	return models.NewAppData(email.DeriveUsername(who.Email), models.DefaultStatusNames...)
}

// call runs fn against the store with the breaker, timeout, span and metrics
// around it. Domain errors from mutate callbacks pass through untouched;
// sentinel.ErrNotFound is returned as is for the caller to interpret; any
// other failure becomes storage_unavailable.
func (s *Service) call(ctx context.Context, op string, accountID id.AccountID, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "appdata."+op, trace.WithAttributes(
		attribute.String("account.id", accountID.String()),
	))
	defer span.End()

	if !s.breaker.Allow() {
		span.SetStatus(codes.Error, "breaker open")
		return dErrors.New(dErrors.CodeStorageUnavailable, "storage temporarily unavailable")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	if s.metrics != nil {
		s.metrics.ObserveStoreOp(op, storeFailure(err), time.Since(start))
	}

	switch {
	case err == nil, errors.Is(err, sentinel.ErrNotFound):
		s.recordSuccess()
		return err
	case isDomainError(err):
		s.recordSuccess()
		span.SetStatus(codes.Error, err.Error())
		return err
	default:
		s.recordFailure(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		s.logger.ErrorContext(ctx, "app data store call failed",
			"op", op,
			"account_id", accountID.String(),
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "storage timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "storage unavailable")
	}
}

func (s *Service) recordSuccess() {
	if _, change := s.breaker.RecordSuccess(); change.Closed && s.metrics != nil {
		s.metrics.SetBreakerOpen(false)
	}
}

func (s *Service) recordFailure(ctx context.Context) {
	_, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "app data store breaker opened", "breaker", s.breaker.Name())
		if s.metrics != nil {
			s.metrics.SetBreakerOpen(true)
		}
	}
}

func isDomainError(err error) bool {
	_, ok := dErrors.CodeOf(err)
	return ok
}

// storeFailure hides outcomes that are not store failures from the latency metric's result label.
func storeFailure(err error) error {
	if err == nil || errors.Is(err, sentinel.ErrNotFound) || isDomainError(err) {
		return nil
	}
	return err
}
