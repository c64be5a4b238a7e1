package invoices

import (
	"context"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
	"settlement-service/internal/pkg/exceptions"
	"settlement-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

type invoiceUsecase struct {
	InvoiceRepository contracts.InvoiceRepository
	Log               *zap.Logger
}

var (
	invoiceUsecaseInstance contracts.InvoiceUsecase
	onceInvoiceUsecase     sync.Once
)

func NewInvoiceUsecase(invoiceRepository contracts.InvoiceRepository, logger *zap.Logger) contracts.InvoiceUsecase {
	onceInvoiceUsecase.Do(func() {
		instance := &invoiceUsecase{
			InvoiceRepository: invoiceRepository,
			Log:               logger,
		}
		invoiceUsecaseInstance = instance
	})
	return invoiceUsecaseInstance
}

func (uc *invoiceUsecase) CreateInvoice(ctx context.Context, requester *models.Identity, request *requests.CreateInvoice) (*responses.Invoice, error) {
	requestID := utils.GetRequestID(ctx)

	if !requester.IsAdmin() {
		return nil, exceptions.ErrRequesterForbidden(nil)
	}

	invoice := &models.Invoice{
		OwnerID:     request.OwnerID,
		Amount:      request.Amount,
		Currency:    request.Currency,
		Description: request.Description,
	}
	created, err := uc.InvoiceRepository.CreateInvoice(ctx, invoice)
	if err != nil {
		uc.Log.Error("invoiceUsecase.CreateInvoice error creating invoice",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("invoiceUsecase.CreateInvoice created invoice",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, created.ID),
		zap.String(constvars.LoggingOwnerIDKey, created.OwnerID),
	)
	return responses.NewInvoice(created), nil
}

func (uc *invoiceUsecase) GetInvoice(ctx context.Context, requester *models.Identity, invoiceID string) (*responses.Invoice, error) {
	invoice, err := uc.InvoiceRepository.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, exceptions.ErrInvoiceNotFound(nil)
	}
	if !requester.CanAccess(invoice.OwnerID) {
		return nil, exceptions.ErrRequesterForbidden(nil)
	}
	return responses.NewInvoice(invoice), nil
}

func (uc *invoiceUsecase) ListByOwner(ctx context.Context, requester *models.Identity, ownerID string) ([]responses.Invoice, error) {
	if !requester.CanAccess(ownerID) {
		return nil, exceptions.ErrRequesterForbidden(nil)
	}

	invoices, err := uc.InvoiceRepository.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return responses.NewInvoiceList(invoices), nil
}
