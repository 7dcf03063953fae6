package middleware

import (
	"context"
	"net/http"
	"time"
)

// LockTimeout bounds every request context by d, which in turn bounds how
// long ledger operations wait for account guards. A request that runs out of
// time gets a ConcurrencyError from the ledger instead of blocking.
// A non-positive d leaves requests unbounded.
func LockTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
