package config

import (
	"os"
	"strconv"
	"time"

	tqstrings "tasquest/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	Environment    string
	JWTSigningKey  string
	JWTIssuer      string
	TokenTTL       time.Duration
	StoreTimeout   time.Duration
	RequestTimeout time.Duration
	Breaker        BreakerConfig
	RateLimit      RateLimitConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
}

// BreakerConfig tunes the document store circuit breaker.
type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
}

// RateLimitConfig bounds unauthenticated credential endpoints per client IP.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// PostgresConfig selects the Postgres-backed stores when URL is set.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxConns     int32
	AutoMigrate  bool
}

// RedisConfig selects the Redis revocation list and AppData cache when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig enables the Kafka audit publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// IsDev reports whether the server runs with development defaults.
func (s Server) IsDev() bool {
	return s.Environment == "dev"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("TASQUEST_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; production deployments must override.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           envOr("TASQUEST_ADDR", ":8080"),
		Environment:    envOr("TASQUEST_ENV", "dev"),
		JWTSigningKey:  jwtSigningKey,
		JWTIssuer:      envOr("TASQUEST_JWT_ISSUER", "tasquest"),
		TokenTTL:       envDuration("TASQUEST_TOKEN_TTL", 24*time.Hour),
		StoreTimeout:   envDuration("TASQUEST_STORE_TIMEOUT", 3*time.Second),
		RequestTimeout: envDuration("TASQUEST_REQUEST_TIMEOUT", 15*time.Second),
		Breaker: BreakerConfig{
			FailureThreshold: envInt("TASQUEST_BREAKER_FAILURES", 5),
			SuccessThreshold: envInt("TASQUEST_BREAKER_SUCCESSES", 2),
			Cooldown:         envDuration("TASQUEST_BREAKER_COOLDOWN", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			PerSecond: envFloat("TASQUEST_AUTH_RATE_PER_SECOND", 1),
			Burst:     envInt("TASQUEST_AUTH_RATE_BURST", 5),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("TASQUEST_DATABASE_URL"),
			MaxOpenConns: envInt("TASQUEST_DATABASE_MAX_OPEN_CONNS", 10),
			MaxConns:     int32(envInt("TASQUEST_DATABASE_MAX_CONNS", 10)),
			AutoMigrate:  os.Getenv("TASQUEST_DATABASE_AUTO_MIGRATE") != "false",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("TASQUEST_REDIS_URL"),
			PoolSize:     envInt("TASQUEST_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("TASQUEST_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("TASQUEST_REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  envDuration("TASQUEST_REDIS_READ_TIMEOUT", time.Second),
			WriteTimeout: envDuration("TASQUEST_REDIS_WRITE_TIMEOUT", time.Second),
			CacheTTL:     envDuration("TASQUEST_APPDATA_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    tqstrings.SplitList(os.Getenv("TASQUEST_KAFKA_BROKERS")),
			AuditTopic: envOr("TASQUEST_AUDIT_TOPIC", "tasquest.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
