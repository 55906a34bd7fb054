package session_start_post

import (
	"encoding/json"
	"net/http"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/handlers/rest/httperr"
	"courier-dispatch/internal/pkg/middlewares/auth"
	"courier-dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, ok := auth.CourierID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req dto.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	session, err := h.service.StartSession(r.Context(), courierID, req.Code)
	if err != nil {
		h.log.Warn("session start rejected",
			logger.NewField("courier_id", courierID),
			logger.NewField("error", err),
		)
		httperr.Write(w, h.log, err)
		return
	}

	h.log.Info("session started", logger.NewField("courier_id", courierID))
	httperr.WriteJSON(w, h.log, http.StatusOK, dto.FromSession(session))
}
