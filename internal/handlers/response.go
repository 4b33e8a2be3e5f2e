package handlers

import (
	"encoding/json"
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
)

func responseWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("HTTP: Не удалось записать ответ", err)
	}
}

func responseWithMessage(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, dto.ErrorResponse{Message: message})
}

func responseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
