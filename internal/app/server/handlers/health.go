package handlers

import (
	"francoggm/coffeekiosk-mpesa/internal/models"
	"net/http"
	"time"
)

const (
	serviceName    = "Coffee Kiosk M-PESA API"
	serviceVersion = "1.0.0"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthCheck{
		Status:    "OK",
		Message:   serviceName + " is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ServiceInfo{
		Message: serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"health":   "GET /health",
			"pay":      "POST /pay",
			"callback": "POST /callback",
		},
	})
}
