package models

import "time"

const CallbackAckDescription = "Callback received successfully"

type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

type CallbackEnvelope struct {
	Body *CallbackBody `json:"Body"`
}

type CallbackBody struct {
	StkCallback *StkCallback `json:"stkCallback"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

type CallbackEvent struct {
	ID         string
	ReceivedAt time.Time
	Body       []byte
}

type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Transaction       *TransactionDetails
}

type TransactionDetails struct {
	Amount             string `json:"Amount,omitempty"`
	MpesaReceiptNumber string `json:"MpesaReceiptNumber,omitempty"`
	PhoneNumber        string `json:"PhoneNumber,omitempty"`
	TransactionDate    string `json:"TransactionDate,omitempty"`
}
