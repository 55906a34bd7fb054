package session_action_post

import (
	"context"
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
	actions map[string]func(ctx context.Context, courierID int64) (*entities.CourierSession, error)
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log: handlerLog,
		actions: map[string]func(ctx context.Context, courierID int64) (*entities.CourierSession, error){
			"pause":  service.PauseSession,
			"resume": service.ResumeSession,
			"end":    service.EndSession,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	courierID, ok := auth.CourierID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	action := mux.Vars(r)["action"]
	do, ok := h.actions[action]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	session, err := do(r.Context(), courierID)
	if err != nil {
		httperr.Write(w, h.log, err)
		return
	}

	h.log.Info("session state changed",
		logger.NewField("courier_id", courierID),
		logger.NewField("action", action),
		logger.NewField("state", session.State),
	)
	httperr.WriteJSON(w, h.log, http.StatusOK, dto.FromSession(session))
}
