package rate_limiter

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"sai/pkg/logger"
)

// Middleware режет входящий трафик общим token bucket.
// Лимит один на весь роутер, основной потребитель — вебхук канала,
// который при рассылках шлет ответы пачками.
func Middleware(log handlerLogger, limitQPS int, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			).Warn("rate limit exceeded")

			rateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limitQPS))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			if _, err := w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Try again later."}`)); err != nil {
				log.With(logger.NewField("error", err)).Error("failed to write rate limit response")
			}
		})
	}
}
