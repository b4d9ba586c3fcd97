package models

import "time"

// PaymentAuthorization is the gateway's confirmation of a charge. It is not persisted.
type PaymentAuthorization struct {
	PaymentKey string    `json:"paymentKey"`
	OrderID    string    `json:"orderId"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method"`
	ApprovedAt time.Time `json:"approvedAt,omitempty"`
}
