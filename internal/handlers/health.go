package handlers

import (
	"Inkwell/internal/cache"
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger - зависимость, которую проверяет /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптирует функцию к Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler - GET /health.
type HealthHandler struct {
	DB     Pinger
	Cache  cache.Store
	Logger *zap.SugaredLogger
}

type healthView struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Check пингует БД и кеш. 503 только при недоступной БД: кеш best-effort,
// без него сервис работает, поэтому он отражается как "disconnected".
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	v := healthView{Status: "ok", Database: "ok", Cache: "disabled"}
	if err := h.DB.Ping(ctx); err != nil {
		h.Logger.Errorw("database health check failed", "error", err)
		v.Status, v.Database = "degraded", "error"
	}

	if lc, ok := h.Cache.(cache.Lifecycle); ok {
		v.Cache = "disconnected"
		if lc.Connected() {
			v.Cache = "ok"
			if p, ok := h.Cache.(Pinger); ok {
				if err := p.Ping(ctx); err != nil {
					h.Logger.Warnw("cache health check failed", "error", err)
					v.Cache = "error"
				}
			}
		}
	}

	if v.Database != "ok" {
		response.Error(w, &model.AppError{
			Status:  http.StatusServiceUnavailable,
			Code:    "SERVICE_UNAVAILABLE",
			Message: "database unavailable",
		})
		return
	}
	response.JSON(w, http.StatusOK, v)
}
