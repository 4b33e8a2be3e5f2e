package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"taskManager/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeBody читает JSON-объект из тела; пустое тело считается пустым объектом
func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	err := json.NewDecoder(body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return service.NewValidationError("request body must be a JSON object")
		}
		// все поля тела запроса строковые
		return service.NewValidationError(fmt.Sprintf("%s must be a string", typeErr.Field))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return service.NewValidationError("request body is not valid JSON")
	case errors.As(err, &sizeErr):
		return service.NewValidationError("request body is too large")
	default:
		return service.NewValidationError("invalid request body")
	}
}
