package ping_get

import (
	"encoding/json"
	"net/http"

	"courier-dispatch/internal/dto"
	"courier-dispatch/pkg/logger"
)

type Handler struct {
	log      handlerLogger
	channels Channels
	offers   Offers
}

func New(log handlerLogger, channels Channels, offers Offers) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:      handlerLog,
		channels: channels,
		offers:   offers,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message := "pong"
	res := dto.PingResponse{
		Message:           &message,
		ConnectedCouriers: h.channels.Len(),
		LiveOffers:        h.offers.OffersCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(res)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
