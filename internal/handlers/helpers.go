package handlers

import (
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// maxBodyBytes - предел тела JSON-запроса.
const maxBodyBytes = 1 << 20

// strictPolicy вырезает любую разметку; безопасен для конкурентного использования.
var strictPolicy = bluemonday.StrictPolicy()

// plain очищает текстовое поле от HTML и пробелов по краям.
// StrictPolicy экранирует спецсимволы, поэтому результат раскодируется обратно в текст.
func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func plainPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := plain(*s)
	return &v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func bodyError(msg string) *model.AppError {
	return model.NewValidationError([]model.FieldError{{Field: "body", Message: msg}})
}

// decodeJSON строго разбирает тело: неизвестные поля и мусор после объекта отклоняются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *model.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return bodyError("request body is required")
		case errors.As(err, &maxErr):
			return bodyError(fmt.Sprintf("must not exceed %d bytes", maxBodyBytes))
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return bodyError("malformed JSON")
		case errors.As(err, &typeErr):
			return model.NewValidationError([]model.FieldError{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("must be of type %s", typeErr.Type),
			}})
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return model.NewValidationError([]model.FieldError{{Field: field, Message: "unknown field"}})
		default:
			return bodyError("invalid request body")
		}
	}
	if dec.More() {
		return bodyError("must contain a single JSON object")
	}
	return nil
}

// failer пишет ошибку сервиса в конверт. AppError уходит клиенту как есть,
// остальное логируется и превращается в 500 с кодом операции.
type failer struct {
	log *zap.SugaredLogger
}

func (f failer) fail(w http.ResponseWriter, r *http.Request, err error, code string) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.Error(w, appErr)
		return
	}
	f.log.Errorw("request failed",
		"code", code,
		"method", r.Method,
		"route", routePattern(r),
		"id", chi.URLParam(r, "id"),
		"error", err,
	)
	response.Error(w, model.NewInternalError(code))
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
