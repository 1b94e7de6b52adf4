package middleware

import (
	"context"
	"net/http"

	"github.com/itchan-dev/modcore/shared/logger"
)

type Limiter interface {
	Allow(ctx context.Context, identity string) (bool, error)
}

// RateLimit rejects requests once identity used up its budget. Limiter errors
// let the request through.
func RateLimit(l Limiter, getIdentity func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := getIdentity(r)
			ok, err := l.Allow(r.Context(), identity)
			if err != nil {
				logger.Log.Warn("rate limiter unavailable", "identity", identity, "error", err)
			} else if !ok {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ByIP keys on the address resolved by Identify.
func ByIP(r *http.Request) string {
	return GetRequestContext(r).IP
}
