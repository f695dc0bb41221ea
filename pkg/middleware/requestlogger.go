package middleware

import (
	"log/slog"
	"net/http"

	"github.com/asqwklop12/sparta/pkg/logger"
)

// RequestLogger stores a logger carrying correlation_id, user_id, trace_id
// and span_id in the request context for logger.FromContext.
//
// Mount it after RequestLogging and Tracing. Inside an Auth group it also
// picks up the authenticated user id.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
