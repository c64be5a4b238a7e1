package models

import (
	"time"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceVoid    InvoiceStatus = "void"
)

// Invoice is owned by the invoice ledger. Amount is fixed-point, expressed in
// minor units (10164 means 101.64), and immutable after creation. Version is a
// monotonically increasing counter used for optimistic concurrency: the only
// write path after creation is the conditional mark-paid transition.
type Invoice struct {
	ID          string        `json:"id" bson:"_id"`
	OwnerID     string        `json:"owner_id" bson:"owner_id"`
	Amount      int64         `json:"amount" bson:"amount"`
	Currency    string        `json:"currency" bson:"currency"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Status      InvoiceStatus `json:"status" bson:"status"`
	Version     int64         `json:"version" bson:"version"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

type MarkPaidOutcome string

const (
	// MarkPaidUpdated means the CAS succeeded and the invoice is now paid.
	MarkPaidUpdated MarkPaidOutcome = "updated"
	// MarkPaidVersionConflict means the stored version differs from the
	// expected one. Callers must re-read and decide whether to retry or treat
	// the invoice as settled by a concurrent writer.
	MarkPaidVersionConflict MarkPaidOutcome = "version_conflict"
	// MarkPaidAlreadyPaid is terminal: someone else finished the transition.
	MarkPaidAlreadyPaid MarkPaidOutcome = "already_paid"
	MarkPaidNotFound    MarkPaidOutcome = "not_found"
	// MarkPaidNotPayable means the invoice is void and cannot transition.
	MarkPaidNotPayable MarkPaidOutcome = "not_payable"
)

// MarkPaidResult is a value, not an error: version conflicts and already-paid
// are normal outcomes of the CAS primitive.
type MarkPaidResult struct {
	Outcome MarkPaidOutcome
	Invoice *Invoice
}
