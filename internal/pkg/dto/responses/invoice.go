package responses

import (
	"settlement-service/internal/app/models"
	"time"
)

type Invoice struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewInvoice(model *models.Invoice) *Invoice {
	return &Invoice{
		ID:          model.ID,
		OwnerID:     model.OwnerID,
		Amount:      model.Amount,
		Currency:    model.Currency,
		Description: model.Description,
		Status:      string(model.Status),
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func NewInvoiceList(invoiceModels []models.Invoice) []Invoice {
	invoices := make([]Invoice, 0, len(invoiceModels))
	for i := range invoiceModels {
		invoices = append(invoices, *NewInvoice(&invoiceModels[i]))
	}
	return invoices
}
