package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentAttempt is owned by the payment ledger. Many attempts may target one
// invoice, but at most one may reach completed. IdempotencyToken carries a
// unique index so that replaying a request never creates a second attempt.
type PaymentAttempt struct {
	ID               string        `json:"id" bson:"_id"`
	InvoiceID        string        `json:"invoice_id" bson:"invoice_id"`
	Amount           int64         `json:"amount" bson:"amount"`
	Currency         string        `json:"currency" bson:"currency"`
	Method           string        `json:"method" bson:"method"`
	IdempotencyToken string        `json:"idempotency_token" bson:"idempotency_token"`
	Status           PaymentStatus `json:"status" bson:"status"`
	GatewayRef       string        `json:"gateway_ref,omitempty" bson:"gateway_ref,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}

func (p *PaymentAttempt) Terminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}
