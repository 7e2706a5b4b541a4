package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementAccountsCreated()
	m.ObserveSignIn("success")
	m.ObserveSignIn("invalid_credentials")
	m.ObserveSignIn("invalid_credentials")
	m.SetBreakerOpen(true)
	m.ObserveStoreOp("fetch", errors.New("boom"), 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SignIns.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerOpen))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StoreOpDurationMs))
}
