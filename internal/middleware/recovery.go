package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"stash/internal/httputil"
)

// Recovery converts a panicking handler into a 500 problem response. Without
// it a panic tears down the whole connection mid-write; with it the caller
// gets a well-formed error and the stack lands in the log.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("request handler panicked",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", v,
						"stack", string(debug.Stack()),
					)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
