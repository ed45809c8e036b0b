package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestRecovery_TurnsPanicIntoEnvelope(t *testing.T) {
	t.Parallel()

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	Recovery(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Unexpected server error"}}`, rec.Body.String())
}

func TestRecovery_AbortsPartialResponse(t *testing.T) {
	t.Parallel()

	panicking := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,`))
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Recovery(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"success":true,`, rec.Body.String())
}

func TestRecovery_PassesAbortThrough(t *testing.T) {
	t.Parallel()

	aborting := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	rec := httptest.NewRecorder()
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Recovery(aborting).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Empty(t, rec.Body.String())
}

func TestLogging_SetsRequestID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Logging(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	Logging(okHandler()).ServeHTTP(rec, req)
	require.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}
