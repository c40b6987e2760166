package payment

import (
	"context"
	"errors"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/app/mpesa"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"francoggm/coffeekiosk-mpesa/internal/phone"
	"log"
	"math"
	"net/http"
)

const responseCodeAccepted = "0"

var (
	ErrMissingParameters = errors.New("phone number and amount are required")
	ErrInvalidAmount     = errors.New("amount must be at least KES 1")
	ErrGatewayRejected   = errors.New("stk push rejected by gateway")
	ErrInvalidRequest    = errors.New("gateway rejected the request as invalid")
	ErrProcessingFailed  = errors.New("payment processing failed")
)

// GatewayRejectedError carries the gateway's answer for a non-zero ResponseCode.
type GatewayRejectedError struct {
	Code        string
	Description string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("%s: code %s: %s", ErrGatewayRejected, e.Code, e.Description)
}

func (e *GatewayRejectedError) Is(target error) bool {
	return target == ErrGatewayRejected
}

type TokenProvider interface {
	Get(ctx context.Context) (models.AccessToken, error)
}

type Gateway interface {
	STKPush(ctx context.Context, accessToken string, payload *models.STKPushPayload) (*models.STKPushResponse, error)
}

type Merchant struct {
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
}

type PaymentService struct {
	tokens   TokenProvider
	gateway  Gateway
	builder  *mpesa.Builder
	merchant Merchant
}

func NewPaymentService(tokens TokenProvider, gateway Gateway, builder *mpesa.Builder, merchant Merchant) *PaymentService {
	return &PaymentService{
		tokens:   tokens,
		gateway:  gateway,
		builder:  builder,
		merchant: merchant,
	}
}

// Initiate validates the request and sends a single STK push to the gateway.
func (p *PaymentService) Initiate(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if req.Phone == "" || req.Amount == nil {
		return nil, ErrMissingParameters
	}

	// float64(math.MaxInt64) rounds up to 2^63, so >= keeps the int64 conversion exact.
	amount := *req.Amount
	if amount < 1 || amount != math.Trunc(amount) || amount >= math.MaxInt64 {
		return nil, ErrInvalidAmount
	}

	token, err := p.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}

	payload := p.buildPayload(phone.Normalize(req.Phone), int64(amount))

	log.Printf("Initiating STK Push for phone: %s, amount: %d\n", payload.PhoneNumber, payload.Amount)

	res, err := p.gateway.STKPush(ctx, token.Value, payload)
	if err != nil {
		log.Println("Payment initiation error:", err)

		var statusErr *mpesa.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	log.Printf("STK Push response: %+v\n", res)

	if res.ResponseCode != responseCodeAccepted {
		return nil, &GatewayRejectedError{
			Code:        res.ResponseCode,
			Description: res.ResponseDescription,
		}
	}

	return &models.PaymentResult{
		TransactionID:     res.CheckoutRequestID,
		MerchantRequestID: res.MerchantRequestID,
		CustomerMessage:   res.CustomerMessage,
	}, nil
}

func (p *PaymentService) buildPayload(phoneNumber string, amount int64) *models.STKPushPayload {
	timestamp, password := p.builder.Sign()
	shortCode := p.builder.ShortCode()

	return &models.STKPushPayload{
		BusinessShortCode: shortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   models.TransactionTypePayBillOnline,
		Amount:            amount,
		PartyA:            phoneNumber,
		PartyB:            shortCode,
		PhoneNumber:       phoneNumber,
		CallBackURL:       p.merchant.CallbackURL,
		AccountReference:  p.merchant.AccountReference,
		TransactionDesc:   p.merchant.TransactionDesc,
	}
}
