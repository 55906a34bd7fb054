package admin_orders_get

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/handlers/rest/httperr"

	"github.com/gorilla/mux"
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
	courierID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || courierID <= 0 {
		httperr.BadRequest(w, h.log, "invalid courier id")
		return
	}

	orders, err := h.service.ListByCourier(r.Context(), courierID)
	if err != nil {
		httperr.Write(w, h.log, err)
		return
	}

	httperr.WriteJSON(w, h.log, http.StatusOK, dto.FromOrders(orders))
}
