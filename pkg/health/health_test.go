package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeState(t *testing.T, rec *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	s := New()

	rec := httptest.NewRecorder()
	s.ReadyEndpoint(rec, nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := probeState(t, rec)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")
}

func TestReadyEndpoint_Ready(t *testing.T) {
	s := New()
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.ReadyEndpoint(rec, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", probeState(t, rec).Status)
}

func TestLiveEndpoint_HealthyUntilThreshold(t *testing.T) {
	s := New()
	s.AddLivenessCheck("flaky", time.Second, func(_ context.Context) error {
		return errors.New("down")
	})

	p := s.liveness[0]
	ctx := context.Background()

	// Below the consecutive-failure threshold the probe still reports
	// healthy.
	p.run(ctx)
	p.run(ctx)

	rec := httptest.NewRecorder()
	s.LiveEndpoint(rec, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	p.run(ctx)

	rec = httptest.NewRecorder()
	s.LiveEndpoint(rec, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "down", probeState(t, rec).Checks["flaky"])
}

func TestProbe_RecoversOnFirstSuccess(t *testing.T) {
	var fail bool
	p := newProbe("db", time.Second, func(_ context.Context) error {
		if fail {
			return errors.New("ping failed")
		}
		return nil
	})

	ctx := context.Background()
	fail = true
	for range failAfter {
		p.run(ctx)
	}
	require.False(t, p.healthy.Load())

	fail = false
	p.run(ctx)
	assert.True(t, p.healthy.Load())
}

func TestIsReady_RequiresPassingChecks(t *testing.T) {
	s := New()
	s.SetReady(true)
	s.AddReadinessCheck("db", time.Second, func(_ context.Context) error {
		return errors.New("no connection")
	})

	assert.True(t, s.IsReady(), "check has not failed yet")

	p := s.readiness[0]
	for range failAfter {
		p.run(context.Background())
	}
	assert.False(t, s.IsReady())
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
