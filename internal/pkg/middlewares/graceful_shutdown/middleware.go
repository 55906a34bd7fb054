package graceful_shutdown

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"courier-dispatch/internal/dto"
)

// retryAfter секунд, за которые балансировщик успевает увести трафик на другой инстанс
const retryAfter = "5"

// Middleware после отмены ongoingCtx отвечает 503: курьерский клиент повторит запрос
// на другом инстансе и пересинхронизирует состояние.
func Middleware(isShuttingDown *atomic.Bool, ongoingCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-ongoingCtx.Done():
				if isShuttingDown.Load() {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("Retry-After", retryAfter)
					w.Header().Set("Connection", "close")
					w.WriteHeader(http.StatusServiceUnavailable)
					_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "service is shutting down"})
					return
				}
			default:
			}
			next.ServeHTTP(w, r)
		})
	}
}
