package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps how long a request context stays alive. Handlers
// are expected to watch ctx.Done(); nothing is forcibly terminated. It is
// applied per route group so the chat stream can run without a deadline.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
