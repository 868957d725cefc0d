package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(cfg RateLimitConfig) http.Handler {
	return Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		RateLimit(cfg),
	)
}

func get(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 3, Window: time.Minute})

	for range 3 {
		rec := get(h, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 2, Window: time.Minute})

	get(h, "10.0.0.1:1234")
	get(h, "10.0.0.1:1234")
	rec := get(h, "10.0.0.1:1234")

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.1:9999").Code)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1234").Code)
}

func TestRateLimit_ForwardedForWins(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client, different socket: still over budget.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.99:4321"
	req2.Header.Set("X-Forwarded-For", "203.0.113.5")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestRateLimit_WindowRotation(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 2, Window: time.Minute})
	base := time.Unix(1700000000, 0).Truncate(time.Minute)

	_, _, ok := l.take("k", base)
	require.True(t, ok)
	_, _, ok = l.take("k", base.Add(time.Second))
	require.True(t, ok)
	_, _, ok = l.take("k", base.Add(2*time.Second))
	require.False(t, ok)

	// Two full windows later, history is gone.
	_, _, ok = l.take("k", base.Add(2*time.Minute+time.Second))
	assert.True(t, ok)
}

func TestRateLimit_Eviction(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	base := time.Unix(1700000000, 0)

	l.take("stale", base)
	l.take("fresh", base.Add(2*time.Minute))
	l.evict(base.Add(2 * time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.windows, "stale")
	assert.Contains(t, l.windows, "fresh")
}
