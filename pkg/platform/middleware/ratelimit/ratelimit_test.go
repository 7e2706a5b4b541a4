package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tasquest/pkg/requestcontext"
)

type countingObserver struct{ n int }

func (c *countingObserver) IncrementRateLimited() { c.n++ }

func TestLimiter(t *testing.T) {
	t.Run("burst then reject", func(t *testing.T) {
		l := New(0.001, 2, nil)
		assert.True(t, l.Allow("203.0.113.1"))
		assert.True(t, l.Allow("203.0.113.1"))
		assert.False(t, l.Allow("203.0.113.1"))
		assert.True(t, l.Allow("203.0.113.2"), "other clients keep their own bucket")
	})

	t.Run("handler answers 429 and notifies observer", func(t *testing.T) {
		obs := &countingObserver{}
		l := New(0.001, 1, obs)
		h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		do := func() int {
			r := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
			r = r.WithContext(requestcontext.WithClientMetadata(r.Context(), "198.51.100.9", "test"))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			return w.Code
		}

		assert.Equal(t, http.StatusNoContent, do())
		assert.Equal(t, http.StatusTooManyRequests, do())
		assert.Equal(t, 1, obs.n)
	})

	t.Run("sweep drops idle buckets", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		l := New(1, 1, nil)
		l.clock = func() time.Time { return now }
		l.Allow("a")
		now = now.Add(time.Hour)
		l.Allow("b")
		assert.Equal(t, 1, l.Sweep(30*time.Minute))
	})
}
