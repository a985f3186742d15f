package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/forkdown/foal"
)

// LoggingHook creates a hook that logs each request reaching its route using slog.
// Attach it to a top-level controller so every route below inherits it.
func LoggingHook(logger *slog.Logger) foal.Hook {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx *foal.Context) (foal.Response, error) {
		req := ctx.Request()
		logger.InfoContext(ctx, "request matched",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("member", ctx.MemberName()),
		)
		return nil, nil
	}
}

// statusRecorder captures the status code written by the inner handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging returns an HTTP middleware that logs every request with its
// status and duration. Unlike LoggingHook it also sees unmatched requests.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
