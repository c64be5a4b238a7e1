package contracts

import (
	"context"
	"time"
)

// SettlementEvent is the terminal-outcome event exposed to the notification
// and analytics collaborators.
type SettlementEvent struct {
	InvoiceID string    `json:"invoice_id"`
	PaymentID string    `json:"payment_id"`
	OwnerID   string    `json:"owner_id"`
	Outcome   string    `json:"outcome"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher delivers settlement events at-most-once-effort: no retry, no
// guarantee, and a failure never affects settlement correctness.
type EventPublisher interface {
	PublishSettlementOutcome(ctx context.Context, event *SettlementEvent) error
}
