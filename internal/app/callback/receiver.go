package callback

import (
	"context"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"log"

	"github.com/bytedance/sonic"
)

const resultCodeSuccess = 0

// UseNumber keeps PhoneNumber and TransactionDate digits intact instead of rounding them through float64.
var callbackAPI = sonic.Config{UseNumber: true}.Froze()

func Ack() models.CallbackAck {
	return models.CallbackAck{
		ResultCode: 0,
		ResultDesc: models.CallbackAckDescription,
	}
}

type Receiver struct{}

func NewReceiver() *Receiver {
	return &Receiver{}
}

// Parse extracts the stk callback from a gateway notification. A body without
// Body.stkCallback yields a nil result and no error.
func (r *Receiver) Parse(body []byte) (*models.CallbackResult, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var envelope models.CallbackEnvelope
	if err := callbackAPI.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal callback: %w", err)
	}

	if envelope.Body == nil || envelope.Body.StkCallback == nil {
		return nil, nil
	}

	stk := envelope.Body.StkCallback
	result := &models.CallbackResult{
		MerchantRequestID: stk.MerchantRequestID,
		CheckoutRequestID: stk.CheckoutRequestID,
		ResultCode:        stk.ResultCode,
		ResultDesc:        stk.ResultDesc,
	}

	if stk.ResultCode == resultCodeSuccess && stk.CallbackMetadata != nil {
		result.Transaction = transactionDetails(stk.CallbackMetadata.Item)
	}

	return result, nil
}

func (r *Receiver) Handle(ctx context.Context, event *models.CallbackEvent) error {
	log.Printf("M-PESA callback %s received: %s\n", event.ID, event.Body)

	result, err := r.Parse(event.Body)
	if err != nil {
		return err
	}

	if result == nil {
		log.Printf("Callback %s has no stkCallback, ignoring\n", event.ID)
		return nil
	}

	log.Printf("Payment result for %s: %d - %s\n", result.CheckoutRequestID, result.ResultCode, result.ResultDesc)

	if result.Transaction == nil {
		log.Printf("Payment %s failed or was cancelled\n", result.CheckoutRequestID)
		return nil
	}

	tx := result.Transaction
	log.Printf("Transaction completed successfully: %+v\n", *tx)
	log.Printf("Amount: KES %s\n", tx.Amount)
	log.Printf("Phone: %s\n", tx.PhoneNumber)
	log.Printf("Receipt: %s\n", tx.MpesaReceiptNumber)

	return nil
}

func transactionDetails(items []models.CallbackItem) *models.TransactionDetails {
	var details models.TransactionDetails

	for _, item := range items {
		if item.Value == nil {
			continue
		}

		value := fmt.Sprint(item.Value)
		switch item.Name {
		case "Amount":
			details.Amount = value
		case "MpesaReceiptNumber":
			details.MpesaReceiptNumber = value
		case "PhoneNumber":
			details.PhoneNumber = value
		case "TransactionDate":
			details.TransactionDate = value
		}
	}

	return &details
}
