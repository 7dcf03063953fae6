package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simonkvalheim/fjord-ledger/internal/repository"
)

// Health returns a handler reporting store counts and, in async mode,
// Redis connectivity. A nil client skips the Redis check.
func Health(store *repository.Store, client *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status": "healthy",
			"stats":  store.Stats(),
		}

		if client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				resp["status"] = "unhealthy"
				resp["redis"] = "disconnected"
				writeJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp["redis"] = "connected"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
