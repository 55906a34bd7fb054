package admin_session_get

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

// ServeHTTP GET /admin/couriers/{id}/session или GET /admin/sessions без id - все смены.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawID, ok := mux.Vars(r)["id"]
	if !ok {
		sessions, err := h.service.ListSessions(r.Context())
		if err != nil {
			httperr.Write(w, h.log, err)
			return
		}
		res := make([]dto.SessionResponse, 0, len(sessions))
		for i := range sessions {
			res = append(res, dto.FromSession(&sessions[i]))
		}
		httperr.WriteJSON(w, h.log, http.StatusOK, res)
		return
	}

	courierID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || courierID <= 0 {
		httperr.BadRequest(w, h.log, "invalid courier id")
		return
	}

	session, err := h.service.GetSession(r.Context(), courierID)
	if err != nil {
		httperr.Write(w, h.log, err)
		return
	}

	httperr.WriteJSON(w, h.log, http.StatusOK, dto.FromSession(session))
}
