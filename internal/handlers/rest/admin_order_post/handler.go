package admin_order_post

import (
	"encoding/json"
	"net/http"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/handlers/rest/httperr"
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
	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	placed, err := h.service.PlaceOrder(r.Context(), req.ToDomain())
	if err != nil {
		httperr.Write(w, h.log, err)
		return
	}

	httperr.WriteJSON(w, h.log, http.StatusCreated, dto.FromOrder(placed))
}
