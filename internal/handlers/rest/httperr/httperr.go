// Package httperr общий для REST-хендлеров разбор ошибок сервисов в HTTP-статусы.
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"courier-dispatch/internal/dto"
	"courier-dispatch/internal/service/lifecycle"
	"courier-dispatch/internal/service/order"
	"courier-dispatch/internal/service/session"
	"courier-dispatch/pkg/logger"
)

type handlerLogger interface {
	Error(msg string, fields ...logger.Field)
}

// Status статус ответа для ошибки сервиса. Неизвестные ошибки - 500.
func Status(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrAlreadyTaken),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderExists),
		errors.Is(err, session.ErrSessionNotActive),
		errors.Is(err, session.ErrSessionNotPaused),
		errors.Is(err, session.ErrAlreadyActive),
		errors.Is(err, session.ErrStateConflict):
		return http.StatusConflict

	case errors.Is(err, order.ErrNotAssignedCourier):
		return http.StatusForbidden

	case errors.Is(err, lifecycle.ErrInvalidSecurityCode),
		errors.Is(err, session.ErrInvalidCode),
		errors.Is(err, session.ErrCodeNotIssued):
		return http.StatusUnprocessableEntity

	case errors.Is(err, order.ErrPaymentModeMismatch),
		errors.Is(err, order.ErrInvalidOrder),
		errors.Is(err, order.ErrInvalidOrderID),
		errors.Is(err, session.ErrInvalidCourierID):
		return http.StatusBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// Write отвечает ошибкой сервиса. Текст внутренних ошибок наружу не отдаётся.
func Write(w http.ResponseWriter, log handlerLogger, err error) {
	status := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", logger.NewField("error", err))
		message = http.StatusText(status)
	}
	WriteJSON(w, log, status, dto.ErrorResponse{Error: message})
}

func BadRequest(w http.ResponseWriter, log handlerLogger, message string) {
	WriteJSON(w, log, http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func WriteJSON(w http.ResponseWriter, log handlerLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode JSON response", logger.NewField("error", err))
	}
}
