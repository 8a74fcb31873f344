package handler

import (
	"context"
	"net/http"
	"time"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db      healthChecker
	started time.Time
}

func NewHealthHandler(db healthChecker) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

type healthData struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := healthData{Status: "ok", Database: "up", Uptime: time.Since(h.started).Round(time.Second).String()}
	status := http.StatusOK
	if err := h.db.Health(ctx); err != nil {
		data.Status = "degraded"
		data.Database = "down"
		status = http.StatusServiceUnavailable
	}

	writeSuccess(w, status, data, nil)
}
