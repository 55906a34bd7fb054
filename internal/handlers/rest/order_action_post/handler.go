package order_action_post

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/handlers/rest/httperr"
	"courier-dispatch/internal/pkg/middlewares/auth"
	"courier-dispatch/pkg/logger"

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

// ServeHTTP POST /orders/{id}/{action}. Тело нужно только collect и deliver.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, ok := auth.CourierID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	orderID := vars["id"]
	action := entities.OrderAction(vars["action"])

	var req dto.OrderActionRequest
	if action == entities.ActionCollect || action == entities.ActionDeliver {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			httperr.BadRequest(w, h.log, "invalid JSON body")
			return
		}
	}

	var (
		updated *entities.Order
		err     error
	)
	switch action {
	case entities.ActionAccept:
		updated, err = h.service.Accept(r.Context(), orderID, courierID)
	case entities.ActionReject:
		updated, err = h.service.Reject(r.Context(), orderID, courierID)
	case entities.ActionCollect:
		updated, err = h.service.Collect(r.Context(), orderID, courierID, req.Payment(), req.Code)
	case entities.ActionDepart:
		updated, err = h.service.Depart(r.Context(), orderID, courierID)
	case entities.ActionDeliver:
		updated, err = h.service.Deliver(r.Context(), orderID, courierID, req.Code)
	case entities.ActionCancel:
		updated, err = h.service.Cancel(r.Context(), orderID, courierID)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	log := h.log.With(
		logger.NewField("order_id", orderID),
		logger.NewField("courier_id", courierID),
		logger.NewField("action", action),
	)
	if err != nil {
		log.Info("order action rejected", logger.NewField("error", err))
		httperr.Write(w, h.log, err)
		return
	}

	log.Info("order action applied", logger.NewField("status", updated.Status))
	httperr.WriteJSON(w, h.log, http.StatusOK, dto.FromOrder(updated))
}
