package handlers

import (
	"errors"
	"net/http"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// responseWithError - единственный путь, которым ошибки попадают клиенту
func (h *TaskHandler) responseWithError(w http.ResponseWriter, r *http.Request, err error) {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		businessErr = service.NewInternal(err)
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	message := businessErr.Message

	if statusCode >= http.StatusInternalServerError {
		logger.HttpRequest(zapcore.ErrorLevel, r, "HTTP: Внутренняя ошибка",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))

		if h.development && businessErr.Err != nil {
			message = businessErr.Err.Error()
		}
	} else {
		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("error_code", string(businessErr.Code)),
			zap.Int("http_status", statusCode),
			zap.String("message", businessErr.Message))
	}

	responseWithMessage(w, statusCode, message)
}

func mapBusinessErrorToHTTP(code service.Code) int {
	switch code {
	case service.CodeValidation, service.CodeInvalidID:
		return http.StatusBadRequest
	case service.CodeNotFound, service.CodeRouteNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
