package middleware

import (
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"net/http"
	"runtime/debug"
)

// Recovery перехватывает панику, логирует метод и путь и отвечает 500 в общем конверте.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				sugar.Errorw("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				response.Error(w, model.NewInternalError(model.CodeInternal))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
