package requests

// SettleInvoice is the settlement request consumed at the boundary.
// ClientRequestID identifies the logical request: retries with the same value
// dedupe to a single payment attempt.
type SettleInvoice struct {
	InvoiceID       string          `json:"invoice_id" validate:"required"`
	ClientRequestID string          `json:"client_request_id" validate:"required"`
	Method          string          `json:"method" validate:"required,oneof=card bank_transfer wallet"`
	PaymentDetails  *PaymentDetails `json:"payment_details,omitempty"`
}

// PaymentDetails is passed through to the gateway and never persisted.
type PaymentDetails struct {
	CardNumber  string `json:"card_number,omitempty"`
	CardExpiry  string `json:"card_expiry,omitempty"`
	CardCVC     string `json:"card_cvc,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	WalletID    string `json:"wallet_id,omitempty"`
}
