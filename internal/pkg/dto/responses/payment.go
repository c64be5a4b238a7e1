package responses

import (
	"settlement-service/internal/app/models"
	"time"
)

type Payment struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoice_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPayment(model *models.PaymentAttempt) *Payment {
	return &Payment{
		ID:            model.ID,
		InvoiceID:     model.InvoiceID,
		Amount:        model.Amount,
		Currency:      model.Currency,
		Method:        model.Method,
		Status:        string(model.Status),
		FailureReason: model.FailureReason,
		CreatedAt:     model.CreatedAt,
	}
}

func NewPaymentList(paymentModels []models.PaymentAttempt) []Payment {
	payments := make([]Payment, 0, len(paymentModels))
	for i := range paymentModels {
		payments = append(payments, *NewPayment(&paymentModels[i]))
	}
	return payments
}
