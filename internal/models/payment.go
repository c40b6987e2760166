package models

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// PaymentRequest keeps Amount as a pointer so an absent amount is told apart from zero.
type PaymentRequest struct {
	Phone  string   `json:"phone"`
	Amount *float64 `json:"amount"`
}

// UnmarshalJSON accepts the phone either as a string or as a bare JSON integer.
func (r *PaymentRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		Phone  phoneValue `json:"phone"`
		Amount *float64   `json:"amount"`
	}
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.Phone = string(wire.Phone)
	r.Amount = wire.Amount
	return nil
}

type phoneValue string

func (p *phoneValue) UnmarshalJSON(data []byte) error {
	raw := string(data)

	switch {
	case raw == "null":
		*p = ""
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = phoneValue(s)
		return nil
	}

	for _, c := range raw {
		if c < '0' || c > '9' {
			return fmt.Errorf("phone must be a string or an integer, got %s", raw)
		}
	}

	*p = phoneValue(raw)
	return nil
}

type PaymentResult struct {
	TransactionID     string
	MerchantRequestID string
	CustomerMessage   string
}

type PaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}
