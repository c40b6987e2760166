package handlers

import (
	"errors"
	"francoggm/coffeekiosk-mpesa/internal/app/payment"
	"francoggm/coffeekiosk-mpesa/internal/app/token"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"francoggm/coffeekiosk-mpesa/internal/phone"
	"log"
	"net/http"

	"github.com/bytedance/sonic"
)

const (
	CodeMissingParameters = "MISSING_PARAMETERS"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeInvalidPhone      = "INVALID_PHONE"
	CodeTokenFailed       = "TOKEN_GENERATION_FAILED"
	CodeSTKPushFailed     = "STK_PUSH_FAILED"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeProcessingFailed  = "PAYMENT_PROCESSING_FAILED"
	CodeInternal          = "INTERNAL_ERROR"
)

const maxPayBodyBytes = 16 << 10

func (h *Handlers) Pay(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayBodyBytes)

	var req models.PaymentRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding payment request:", err)
		writeError(w, http.StatusBadRequest, CodeMissingParameters, "Phone number and amount are required")
		return
	}

	if h.cfg.Server.StrictPhoneValidation && req.Phone != "" {
		if err := phone.Validate(req.Phone); err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidPhone, err.Error())
			return
		}
		req.Phone = phone.Clean(req.Phone)
	}

	res, err := h.paymentService.Initiate(r.Context(), req)
	if err != nil {
		status, code, message := errorResponse(err)
		writeError(w, status, code, message)
		return
	}

	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Success:       true,
		Message:       "STK Push sent successfully. Please check your phone.",
		TransactionID: res.TransactionID,
	})
}

func errorResponse(err error) (int, string, string) {
	var rejected *payment.GatewayRejectedError

	switch {
	case errors.Is(err, payment.ErrMissingParameters):
		return http.StatusBadRequest, CodeMissingParameters, "Phone number and amount are required"
	case errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest, CodeInvalidAmount, "Amount must be at least KES 1"
	case errors.Is(err, token.ErrAuthentication):
		return http.StatusInternalServerError, CodeTokenFailed, "Failed to authenticate with M-PESA API"
	case errors.As(err, &rejected):
		message := rejected.Description
		if message == "" {
			message = "STK Push failed"
		}
		return http.StatusBadRequest, CodeSTKPushFailed, message
	case errors.Is(err, payment.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest, "Invalid request. Please check your phone number and try again."
	}

	return http.StatusInternalServerError, CodeProcessingFailed, "Payment processing failed. Please try again."
}
