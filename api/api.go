package api

import (
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/telehealth-api/models"
)

// HealthCheckHandler reports that the process is up. It does not touch the database.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.HealthCheckResponse{Alive: true})
}
