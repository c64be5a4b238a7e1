package contracts

import (
	"context"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
)

// InvoiceRepository is the invoice ledger. TryMarkPaid is deliberately a
// narrow compare-and-swap rather than a generic update: callers must be able
// to distinguish "someone else already finished this" from "stale read, try
// again".
type InvoiceRepository interface {
	FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	TryMarkPaid(ctx context.Context, invoiceID string, expectedVersion int64) (*models.MarkPaidResult, error)
}

type InvoiceUsecase interface {
	CreateInvoice(ctx context.Context, requester *models.Identity, request *requests.CreateInvoice) (*responses.Invoice, error)
	GetInvoice(ctx context.Context, requester *models.Identity, invoiceID string) (*responses.Invoice, error)
	ListByOwner(ctx context.Context, requester *models.Identity, ownerID string) ([]responses.Invoice, error)
}
