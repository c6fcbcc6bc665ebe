package handlers

import (
	"log/slog"
	"net/http"
	"runtime"
)

// RecoverWrapper turns a panic in any downstream handler into a logged 500.
func RecoverWrapper(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					stack := make([]byte, 8*1024)
					stack = stack[:runtime.Stack(stack, false)]
					logger.Error("panic recovered",
						"method", r.Method,
						"path", r.URL.Path,
						"error", rec,
						"stack", string(stack),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
