// Package health serves the liveness probe.
package health

import (
	"net/http"
	"time"

	"github.com/aanand-mishra/alumni-api/internal/utils/response"
)

// Status is the body of a health response.
type Status struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Get handles GET /health
// Always 200 while the process is serving requests.
//
//	{ "status": "ok", "uptime": "1h2m3s" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Get(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, Status{
			Status: response.StatusOK,
			Uptime: time.Since(startedAt).Truncate(time.Second).String(),
		})
	}
}
