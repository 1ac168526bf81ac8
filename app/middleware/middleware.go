package appMiddleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RateLimitByIP allows requestLimit requests per window for each client IP
// and answers the rest with a JSON 429.
func RateLimitByIP(requestLimit int, window time.Duration) func(next http.Handler) http.Handler {
	return httprate.Limit(requestLimit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success":    false,
				"error":      "Too many requests, please try again later",
				"request_id": middleware.GetReqID(r.Context()),
			})
		}),
	)
}
