package rate_limiter

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/pkg/middlewares/auth"
	"courier-dispatch/pkg/logger"

	"github.com/gorilla/mux"
)

const (
	scopeCourier = "courier"
	scopeIP      = "ip"
)

// Middleware ставится после auth там, где он есть: тогда лимит считается по курьеру.
func Middleware(log handlerLogger, rateLimiterQPS int, rlimiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, key := limitKey(r)
			if rlimiter.Allow(scope + ":" + key) {
				next.ServeHTTP(w, r)
				return
			}

			handlerPath := r.URL.Path
			route := mux.CurrentRoute(r)
			if route != nil {
				if template, err := route.GetPathTemplate(); err == nil {
					handlerPath = template
				}
			}

			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("route", handlerPath),
				logger.NewField("scope", scope),
				logger.NewField("key", key),
			).Warn("rate limit exceeded")

			RateLimitExceededTotal.WithLabelValues(r.Method, handlerPath, scope).Inc()

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimiterQPS))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			err := json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "rate limit exceeded, try again later"})
			if err != nil {
				log.With(
					logger.NewField("error", err),
					logger.NewField("path", r.URL.Path),
				).Error("failed to write rate limit response")
			}
		})
	}
}

func limitKey(r *http.Request) (scope, key string) {
	if courierID, ok := auth.CourierID(r.Context()); ok {
		return scopeCourier, strconv.FormatInt(courierID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return scopeIP, host
}
