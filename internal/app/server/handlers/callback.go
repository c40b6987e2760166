package handlers

import (
	"francoggm/coffeekiosk-mpesa/internal/app/callback"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxCallbackBodyBytes = int64(65536)

// Callback always acknowledges; the gateway keeps retrying unacknowledged notifications.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCallbackBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Println("Error reading callback body:", err)
	}

	event := &models.CallbackEvent{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().UTC(),
		Body:       body,
	}

	select {
	case h.callbackEventsCh <- event:
	default:
		// Buffer full or no workers configured.
		if err := h.callbackHandler.Handle(r.Context(), event); err != nil {
			log.Printf("Error handling callback %s: %v\n", event.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, callback.Ack())
}
