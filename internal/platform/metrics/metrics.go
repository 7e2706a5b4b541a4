package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application.
type Metrics struct {
	AccountsCreated   prometheus.Counter
	SignIns           *prometheus.CounterVec
	SignOuts          prometheus.Counter
	StoreOpDurationMs *prometheus.HistogramVec
	BreakerOpen       prometheus.Gauge
	RateLimited       prometheus.Counter
}

// New creates the collectors and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasquest_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		SignIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tasquest_sign_ins_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
		SignOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasquest_sign_outs_total",
			Help: "Total number of sessions signed out",
		}),
		StoreOpDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tasquest_appdata_store_duration_ms",
			Help:    "Latency of document store operations in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		}, []string{"op", "result"}),
		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tasquest_appdata_breaker_open",
			Help: "1 while the document store circuit breaker is open",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "tasquest_auth_rate_limited_total",
			Help: "Credential requests rejected by the per-IP limiter",
		}),
	}
}

func (m *Metrics) IncrementAccountsCreated() {
	m.AccountsCreated.Inc()
}

// ObserveSignIn records a sign-in attempt; outcome is "success" or "invalid_credentials".
func (m *Metrics) ObserveSignIn(outcome string) {
	m.SignIns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementSignOuts() {
	m.SignOuts.Inc()
}

func (m *Metrics) ObserveStoreOp(op string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOpDurationMs.WithLabelValues(op, result).Observe(float64(elapsed.Microseconds()) / 1000.0)
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

func (m *Metrics) IncrementRateLimited() {
	m.RateLimited.Inc()
}
