package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware ставит дедлайн на обработку запроса. Вебхук канала и
// pull-эндпоинт курьера ходят в БД и внешние API, без дедлайна
// зависший апстрим копит соединения.
func Middleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
