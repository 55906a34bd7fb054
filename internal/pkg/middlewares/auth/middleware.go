package auth

import (
	"net/http"
	"slices"
	"strings"

	"courier-dispatch/pkg/logger"
)

// Middleware пускает только с валидным токеном одной из ролей.
// Токен берётся из Authorization: Bearer, для websocket допускается ?access_token=.
func Middleware(log handlerLogger, parser TokenParser, roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			principal, err := parser.Parse(token)
			if err != nil {
				log.Warn("rejected token",
					logger.NewField("path", r.URL.Path),
					logger.NewField("remote_addr", r.RemoteAddr),
					logger.NewField("error", err),
				)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if len(roles) > 0 && !slices.Contains(roles, principal.Role) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("access_token")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
