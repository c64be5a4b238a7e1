package payments

import (
	"context"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/responses"
	"settlement-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type paymentUsecase struct {
	PaymentRepository contracts.PaymentRepository
	InvoiceRepository contracts.InvoiceRepository
	Log               *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(paymentRepository contracts.PaymentRepository, invoiceRepository contracts.InvoiceRepository, logger *zap.Logger) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			PaymentRepository: paymentRepository,
			InvoiceRepository: invoiceRepository,
			Log:               logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

// GetPayment resolves ownership through the invoice the attempt targets, since
// attempts carry no owner of their own.
func (uc *paymentUsecase) GetPayment(ctx context.Context, requester *models.Identity, paymentID string) (*responses.Payment, error) {
	attempt, err := uc.PaymentRepository.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, exceptions.ErrPaymentNotFound(nil)
	}

	if err := uc.authorizeByInvoice(ctx, requester, attempt.InvoiceID); err != nil {
		return nil, err
	}
	return responses.NewPayment(attempt), nil
}

func (uc *paymentUsecase) ListByInvoice(ctx context.Context, requester *models.Identity, invoiceID string) ([]responses.Payment, error) {
	if err := uc.authorizeByInvoice(ctx, requester, invoiceID); err != nil {
		return nil, err
	}

	attempts, err := uc.PaymentRepository.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return responses.NewPaymentList(attempts), nil
}

func (uc *paymentUsecase) authorizeByInvoice(ctx context.Context, requester *models.Identity, invoiceID string) error {
	invoice, err := uc.InvoiceRepository.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return exceptions.ErrInvoiceNotFound(nil)
	}
	if !requester.CanAccess(invoice.OwnerID) {
		return exceptions.ErrRequesterForbidden(nil)
	}
	return nil
}
