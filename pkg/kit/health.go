package kit

import (
	"net/http"
	"time"
)

// HealthResponse is the liveness body the dashboard polls.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

const StatusHealthy = "healthy"

// Health always answers 200 while the process can serve requests.
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Success:   true,
			Service:   service,
			Status:    StatusHealthy,
			Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
}
