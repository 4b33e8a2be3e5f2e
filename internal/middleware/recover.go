package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"taskManager/internal/logger"

	"go.uber.org/zap"
)

// Recover превращает панику обработчика в ответ 500
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logger.Logger.Error("HTTP: паника в обработчике",
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}()

		next.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
