package channel_get

import (
	"net/http"

	"courier-dispatch/internal/pkg/middlewares/auth"
	"courier-dispatch/pkg/logger"
)

type Handler struct {
	log handlerLogger
	hub Hub
}

func New(log handlerLogger, hub Hub) *Handler {
	handlerLog := log.With(logger.NewField("handler", "channel"))

	return &Handler{
		log: handlerLog,
		hub: hub,
	}
}

// ServeHTTP GET /channel: websocket с push-событиями для курьера из токена.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, ok := auth.CourierID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// при ошибке апгрейда ответ уже записан upgrader'ом
	if err := h.hub.Serve(w, r, courierID); err != nil {
		h.log.Warn("failed to open courier channel",
			logger.NewField("courier_id", courierID),
			logger.NewField("error", err),
		)
	}
}
