package api

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fairhouse/db"
)

// HandleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := "healthy"
	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}

	if err := db.HealthCheckPostgres(ctx); err != nil {
		status = "degraded"
		checks["postgres"] = err.Error()
	}
	if err := db.HealthCheck(ctx); err != nil {
		status = "degraded"
		checks["redis"] = err.Error()
	}

	if status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, map[string]interface{}{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}
