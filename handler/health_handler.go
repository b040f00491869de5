package handler

import (
	"context"
	"net/http"
	"studygroup-api/common"
	"studygroup-api/logger"
	"time"
)

// HealthCheck is a named dependency probe, e.g. a database or Redis ping.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary      Show the status of server
// @Description  get the status of the server and its backing stores
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "API is healthy and running"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Log.WithError(err).WithField("dependency", name).Error("Health check failed")
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body[name] = "unavailable"
			continue
		}
		body[name] = "ok"
	}
	common.WriteJSON(w, status, body)
}
