package models

import (
	"time"
)

type ReconciliationStatus string

const (
	ReconciliationOpen     ReconciliationStatus = "open"
	ReconciliationResolved ReconciliationStatus = "resolved"
	// ReconciliationEscalated is terminal and requires a human operator. The
	// sweep never retries escalated entries, so a data-integrity problem is
	// not masked by endless automatic repair.
	ReconciliationEscalated ReconciliationStatus = "escalated"
)

// ReconciliationEntry records a completed payment whose invoice transition did
// not land. It is the durable successor of the original "payment succeeded but
// invoice update failed" log line.
type ReconciliationEntry struct {
	ID            string               `json:"id" bson:"_id"`
	InvoiceID     string               `json:"invoice_id" bson:"invoice_id"`
	PaymentID     string               `json:"payment_id" bson:"payment_id"`
	Attempts      int                  `json:"attempts" bson:"attempts"`
	Status        ReconciliationStatus `json:"status" bson:"status"`
	LastAttemptAt time.Time            `json:"last_attempt_at" bson:"last_attempt_at"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
}
