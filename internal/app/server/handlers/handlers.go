package handlers

import (
	"context"
	"francoggm/coffeekiosk-mpesa/internal/config"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"log"
	"net/http"

	"github.com/bytedance/sonic"
)

type PaymentInitiator interface {
	Initiate(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
}

type CallbackHandler interface {
	Handle(ctx context.Context, event *models.CallbackEvent) error
}

type Handlers struct {
	cfg              *config.Config
	paymentService   PaymentInitiator
	callbackHandler  CallbackHandler
	callbackEventsCh chan any
}

func NewHandlers(cfg *config.Config, paymentService PaymentInitiator, callbackHandler CallbackHandler, callbackEventsCh chan any) *Handlers {
	return &Handlers{
		cfg:              cfg,
		paymentService:   paymentService,
		callbackHandler:  callbackHandler,
		callbackEventsCh: callbackEventsCh,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		log.Println("Error encoding response:", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.PaymentResponse{
		Success: false,
		Message: message,
		Error:   code,
	})
}
