package requests

// CreateInvoice is the billing boundary: invoices arrive fully formed with
// status pending and version zero. Amount is in minor units.
type CreateInvoice struct {
	OwnerID     string `json:"owner_id" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Description string `json:"description,omitempty"`
}
