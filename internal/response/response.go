// Package response пишет единый конверт ответа API:
// {"success":true,"data":...} или {"success":false,"error":{...}}.
package response

import (
	"Inkwell/internal/model"
	"encoding/json"
	"net/http"
)

// Envelope - общий вид всех ответов API.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody - описание ошибки внутри конверта.
type ErrorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []model.FieldError `json:"details,omitempty"`
}

// JSON пишет успешный ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Error пишет ошибку в конверте со статусом из AppError.
func Error(w http.ResponseWriter, appErr *model.AppError) {
	write(w, appErr.Status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
