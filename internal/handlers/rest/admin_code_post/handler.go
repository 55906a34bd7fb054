package admin_code_post

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/handlers/rest/httperr"
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

// ServeHTTP выдаёт курьеру новый код. Открытый код виден только в этом ответе.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || courierID <= 0 {
		httperr.BadRequest(w, h.log, "invalid courier id")
		return
	}

	code, session, err := h.service.RegenerateCode(r.Context(), courierID)
	if err != nil {
		httperr.Write(w, h.log, err)
		return
	}

	h.log.Info("secret code regenerated", logger.NewField("courier_id", courierID))
	httperr.WriteJSON(w, h.log, http.StatusCreated, dto.CodeResponse{
		CourierID: courierID,
		Code:      code,
		RotatedAt: session.CodeRotatedAt,
	})
}
