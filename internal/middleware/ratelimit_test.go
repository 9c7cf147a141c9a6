package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/navigator/backend/internal/middleware"
)

// TestRateLimitHandler_WithinBurst_PassesThrough verifies that requests up to
// the burst size all succeed.
func TestRateLimitHandler_WithinBurst_PassesThrough(t *testing.T) {
	h := middleware.NewRateLimitHandler(60, 3)(trivialHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

// TestRateLimitHandler_BurstExceeded_Returns429 verifies that the request
// after the burst is exhausted is rejected with 429 and the JSON error body.
func TestRateLimitHandler_BurstExceeded_Returns429(t *testing.T) {
	h := middleware.NewRateLimitHandler(1, 2)(trivialHandler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

// TestRateLimitHandler_SeparateIPs_IndependentBuckets verifies that one
// client exhausting its bucket does not affect another address.
func TestRateLimitHandler_SeparateIPs_IndependentBuckets(t *testing.T) {
	h := middleware.NewRateLimitHandler(1, 1)(trivialHandler)

	first := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same IP again: bucket drained.
	again := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	again.RemoteAddr = "10.0.0.3:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, again)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different IP still has a full bucket.
	other := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
