package responses

// SettlementOutcome is the terminal result reported to the payer.
type SettlementOutcome string

const (
	// SettlementPaid means the payment completed and the invoice is paid.
	SettlementPaid SettlementOutcome = "paid"
	// SettlementDeclined means the gateway declined; the invoice is untouched.
	SettlementDeclined SettlementOutcome = "declined"
	// SettlementPendingReconciliation means the payment completed but the
	// invoice transition is still converging. This is a success to the payer,
	// never a payment failure.
	SettlementPendingReconciliation SettlementOutcome = "pending-reconciliation"
	SettlementError                 SettlementOutcome = "error"
)

type Settlement struct {
	Outcome       SettlementOutcome `json:"outcome"`
	PaymentID     string            `json:"payment_id,omitempty"`
	InvoiceStatus string            `json:"invoice_status,omitempty"`
}
