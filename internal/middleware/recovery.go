package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracked := &headerTracker{ResponseWriter: w}

		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			slog.Error("panic recovered",
				"request_id", w.Header().Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"headers_sent", tracked.sent,
				"error", fmt.Sprintf("%v", recovered),
				"stack", string(debug.Stack()),
			)

			// A partial response cannot become an envelope; drop the connection.
			if tracked.sent {
				panic(http.ErrAbortHandler)
			}
			writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
		}()

		next.ServeHTTP(tracked, r)
	})
}

type headerTracker struct {
	http.ResponseWriter
	sent bool
}

func (t *headerTracker) WriteHeader(statusCode int) {
	t.sent = true
	t.ResponseWriter.WriteHeader(statusCode)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.sent = true
	return t.ResponseWriter.Write(b)
}

func (t *headerTracker) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
