package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	appdatahandler "tasquest/internal/appdata/handler"
	appdataservice "tasquest/internal/appdata/service"
	"tasquest/internal/appdata/store/cache"
	"tasquest/internal/appdata/store/document"
	"tasquest/internal/audit"
	identityhandler "tasquest/internal/identity/handler"
	identityservice "tasquest/internal/identity/service"
	"tasquest/internal/identity/store/account"
	"tasquest/internal/identity/store/revocation"
	jwttoken "tasquest/internal/jwt_token"
	"tasquest/internal/platform/config"
	"tasquest/internal/platform/httpserver"
	"tasquest/internal/platform/logger"
	"tasquest/internal/platform/metrics"
	"tasquest/internal/platform/postgres"
	redisplatform "tasquest/internal/platform/redis"
	httptransport "tasquest/internal/transport/http"
	"tasquest/pkg/platform/circuit"
	authmw "tasquest/pkg/platform/middleware/auth"
	"tasquest/pkg/platform/middleware/ratelimit"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
	limiterMaxIdle  = 10 * time.Minute
	auditBuffer     = 1024
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// infra holds the optional backing services. A nil field selects the
// in-memory implementation of the stores that would use it.
type infra struct {
	db    *sql.DB
	pool  *pgxpool.Pool
	redis *redisplatform.Client
	kafka *audit.KafkaSink
}

func (i *infra) Close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{}
	if cfg.Postgres.URL != "" {
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(cfg.Postgres.URL); err != nil {
				return nil, err
			}
			log.Info("database migrations applied")
		}
		db, err := postgres.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		in.db = db
		pool, err := postgres.OpenPool(ctx, cfg.Postgres)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.pool = pool
	}

	client, err := redisplatform.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.redis = client

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.kafka = sink
		if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
			log.Warn("audit topic bootstrap failed", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
	}
	return in, nil
}

type revocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

func newRevocationList(in *infra) revocationList {
	switch {
	case in.redis != nil:
		return revocation.NewRedisTRL(in.redis.Client)
	case in.db != nil:
		return revocation.NewPostgresTRL(in.db)
	default:
		return revocation.NewInMemoryTRL(nil)
	}
}

func newAccountStore(in *infra) identityservice.AccountStore {
	if in.db != nil {
		return account.NewPostgres(in.db)
	}
	return account.NewInMemoryStore()
}

func newDocumentStore(cfg config.Server, in *infra, log *slog.Logger) appdataservice.DocumentStore {
	var store cache.Store = document.NewInMemoryStore()
	if in.pool != nil {
		store = document.NewPostgres(in.pool)
	}
	if in.redis != nil {
		return cache.NewReadThrough(store, in.redis.Client, cfg.Redis.CacheTTL, log)
	}
	return store
}

func newAuditSink(in *infra) audit.Sink {
	if in.kafka != nil {
		return in.kafka
	}
	return audit.NewInMemoryStore()
}

func healthChecks(in *infra) map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.pool != nil {
		checks["postgres_pool"] = in.pool.Ping
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	return checks
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := openInfra(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open infrastructure: %w", err)
	}
	defer in.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	publisher := audit.NewPublisher(auditBuffer, log)
	worker := audit.NewWorker(newAuditSink(in), publisher.Inbox(), log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)
	trl := newRevocationList(in)
	requireAuth := authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), trl, log)
	limiter := ratelimit.New(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, m)

	identitySvc, err := identityservice.New(newAccountStore(in), jwtService, trl, cfg.TokenTTL,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
		identityservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("build identity service: %w", err)
	}

	breaker := circuit.New("appdata-store",
		circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
		circuit.WithCooldown(cfg.Breaker.Cooldown),
	)
	appdataSvc, err := appdataservice.New(newDocumentStore(cfg, in, log),
		appdataservice.WithLogger(log),
		appdataservice.WithMetrics(m),
		appdataservice.WithTimeout(cfg.StoreTimeout),
		appdataservice.WithBreaker(breaker),
	)
	if err != nil {
		return fmt.Errorf("build appdata service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger: log,
		Components: []httptransport.Registrar{
			identityhandler.New(identitySvc, log, requireAuth, limiter.Handler),
			appdatahandler.New(appdataSvc, log, requireAuth),
		},
		Metrics:        promhttp.Handler(),
		Health:         healthChecks(in),
		RequestTimeout: cfg.RequestTimeout,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting tasquest", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		runJanitor(gctx, log, limiter, trl)
		return nil
	})
	return g.Wait()
}

// runJanitor evicts idle limiter buckets and, for stores that keep them,
// expired revocation entries.
func runJanitor(ctx context.Context, log *slog.Logger, limiter *ratelimit.Limiter, trl revocationList) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Sweep(limiterMaxIdle); n > 0 {
				log.Debug("evicted idle rate limiters", "count", n)
			}
			p, ok := trl.(purger)
			if !ok {
				continue
			}
			if n, err := p.PurgeExpired(ctx); err != nil {
				log.WarnContext(ctx, "revocation purge failed", "error", err)
			} else if n > 0 {
				log.Debug("purged expired revocations", "count", n)
			}
		}
	}
}
