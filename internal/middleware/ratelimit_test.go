package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_UnlimitedGeneral(t *testing.T) {
	handler := NewRateLimitMiddleware(0, 1).Handler(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimitMiddleware_LimitedCredentialPaths(t *testing.T) {
	for _, path := range []string{"/api/v1/auth/token", "/api/v1/users/open"} {
		t.Run(path, func(t *testing.T) {
			handler := NewRateLimitMiddleware(0, 1).Handler(okHandler())

			rec1 := httptest.NewRecorder()
			handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusOK, rec1.Code)

			// Burst is 1, so an immediate second request is over budget.
			rec2 := httptest.NewRecorder()
			handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
			assert.Equal(t, "60", rec2.Header().Get("Retry-After"))
			assert.Contains(t, rec2.Body.String(), `"RATE_LIMITED"`)
		})
	}
}

func TestRateLimitMiddleware_ClientsAreIndependent(t *testing.T) {
	handler := NewRateLimitMiddleware(0, 1).Handler(okHandler())

	for _, addr := range []string{"10.0.0.1:5000", "10.0.0.2:5000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, addr)
	}
}

func TestRateLimitMiddleware_IgnoresForwardedHeadersFromClients(t *testing.T) {
	mw := NewRateLimitMiddleware(0, 2)
	handler := mw.Handler(okHandler())

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 48, limited)
	assert.Len(t, mw.clients, 1)
}

func TestRateLimitMiddleware_TrustedProxyUsesForwardedAddress(t *testing.T) {
	handler := chimiddleware.RealIP(NewRateLimitMiddleware(0, 1).Handler(okHandler()))

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, ip)
	}
}

func TestRateLimitMiddleware_SweepsIdleClients(t *testing.T) {
	mw := NewRateLimitMiddleware(0, 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mw.now = func() time.Time { return now }

	mw.getLimiter("10.0.0.1")
	mw.getLimiter("10.0.0.2")
	require.Len(t, mw.clients, 2)

	now = now.Add(clientIdleTTL + sweepInterval)
	mw.getLimiter("10.0.0.3")

	require.Len(t, mw.clients, 1)
	require.Contains(t, mw.clients, "10.0.0.3")
}

func TestRateLimitMiddleware_CapsTrackedClients(t *testing.T) {
	mw := NewRateLimitMiddleware(0, 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mw.now = func() time.Time { return now }

	for i := 0; i < maxTrackedClients; i++ {
		now = now.Add(time.Millisecond)
		mw.getLimiter(fmt.Sprintf("client-%d", i))
	}
	require.Len(t, mw.clients, maxTrackedClients)

	now = now.Add(time.Millisecond)
	mw.getLimiter("newcomer")

	require.Len(t, mw.clients, maxTrackedClients)
	require.NotContains(t, mw.clients, "client-0")
	require.Contains(t, mw.clients, "newcomer")
}

func TestRateLimitMiddleware_Configuration(t *testing.T) {
	mw := NewRateLimitMiddleware(-1, 0)
	assert.Equal(t, -1, mw.generalRPM)
	assert.Equal(t, 10, mw.authRPM)
}
