package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/user/workspace-engine/internal/domain"
)

// RateLimit is a middleware factory that limits requests per origin. Each
// tenant origin gets its own token bucket, so one tenant hammering the
// reward endpoint cannot starve the others.
func RateLimit(rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	var limiters sync.Map // origin -> *rate.Limiter

	limiterFor := func(origin string) *rate.Limiter {
		if l, ok := limiters.Load(origin); ok {
			return l.(*rate.Limiter)
		}
		l, _ := limiters.LoadOrStore(origin, rate.NewLimiter(rate.Limit(rps), burst))
		return l.(*rate.Limiter)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := domain.NormalizeOrigin(r.Host)

			if !limiterFor(origin).Allow() {
				logger.Warn("request rate limited", "origin", origin, "path", r.URL.Path)
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
