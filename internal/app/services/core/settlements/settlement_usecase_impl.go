package settlements

import (
	"context"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
	"settlement-service/internal/pkg/exceptions"
	"settlement-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	settlementUsecaseInstance contracts.SettlementUsecase
	onceSettlementUsecase     sync.Once
)

type settlementUsecase struct {
	InvoiceRepository        contracts.InvoiceRepository
	PaymentExecutor          contracts.PaymentExecutor
	ReconciliationRepository contracts.ReconciliationRepository
	EventPublisher           contracts.EventPublisher
	Log                      *zap.Logger
	markPaidMaxAttempts      int
	markPaidBackoff          time.Duration
	executionTimeout         time.Duration
}

func NewSettlementUsecase(
	invoiceRepository contracts.InvoiceRepository,
	paymentExecutor contracts.PaymentExecutor,
	reconciliationRepository contracts.ReconciliationRepository,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SettlementUsecase {
	onceSettlementUsecase.Do(func() {
		instance := &settlementUsecase{
			InvoiceRepository:        invoiceRepository,
			PaymentExecutor:          paymentExecutor,
			ReconciliationRepository: reconciliationRepository,
			EventPublisher:           eventPublisher,
			Log:                      logger,
			markPaidMaxAttempts:      internalConfig.Settlement.MarkPaidMaxAttempts,
			markPaidBackoff:          time.Duration(internalConfig.Settlement.MarkPaidBackoffInMillis) * time.Millisecond,
			executionTimeout:         time.Duration(internalConfig.Settlement.ExecutionTimeoutInSeconds) * time.Second,
		}
		settlementUsecaseInstance = instance
	})
	return settlementUsecaseInstance
}

// Settle drives one settlement from validation to a terminal outcome. Once the
// charge starts the flow is detached from request cancellation, so a payer
// closing the connection can no longer leave money in motion unrecorded.
func (uc *settlementUsecase) Settle(ctx context.Context, requester *models.Identity, request *requests.SettleInvoice) (*responses.Settlement, error) {
	requestID := utils.GetRequestID(ctx)

	invoice, err := uc.InvoiceRepository.FindByID(ctx, request.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, exceptions.ErrInvoiceNotFound(nil)
	}
	if !requester.CanAccess(invoice.OwnerID) {
		return nil, exceptions.ErrRequesterForbidden(nil)
	}
	switch invoice.Status {
	case models.InvoicePaid:
		return nil, exceptions.ErrInvoiceAlreadyPaid(nil)
	case models.InvoiceVoid:
		return nil, exceptions.ErrInvoiceNotPayable(nil)
	}

	token := utils.DeriveIdempotencyToken(request.InvoiceID, request.ClientRequestID)

	uc.Log.Info("settlementUsecase.Settle executing payment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoice.ID),
		zap.String(constvars.LoggingIdempotencyKey, token),
		zap.String(constvars.LoggingSettlementStateKey, "executing_payment"),
	)

	execCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.executionTimeout)
	defer cancel()

	attempt, err := uc.PaymentExecutor.Execute(execCtx, &contracts.ExecutePaymentInput{
		InvoiceID:        invoice.ID,
		Amount:           invoice.Amount,
		Currency:         invoice.Currency,
		Method:           request.Method,
		IdempotencyToken: token,
		PaymentDetails:   request.PaymentDetails,
	})
	if err != nil {
		return nil, err
	}

	if attempt.Status == models.PaymentFailed {
		// A decline is terminal and leaves the invoice exactly as it was.
		uc.publishOutcome(execCtx, invoice, attempt, string(responses.SettlementDeclined), request.Method)
		return &responses.Settlement{
			Outcome:       responses.SettlementDeclined,
			PaymentID:     attempt.ID,
			InvoiceStatus: string(invoice.Status),
		}, nil
	}

	outcome, invoiceStatus := uc.markInvoicePaid(execCtx, requestID, invoice, attempt)

	uc.publishOutcome(execCtx, invoice, attempt, string(outcome), request.Method)

	return &responses.Settlement{
		Outcome:       outcome,
		PaymentID:     attempt.ID,
		InvoiceStatus: invoiceStatus,
	}, nil
}

// markInvoicePaid runs the bounded CAS loop against the invoice ledger. Any
// path that cannot confirm the paid transition files a reconciliation entry
// and reports pending-reconciliation; the payment itself already succeeded, so
// nothing here may surface as a payment failure.
func (uc *settlementUsecase) markInvoicePaid(ctx context.Context, requestID string, invoice *models.Invoice, attempt *models.PaymentAttempt) (responses.SettlementOutcome, string) {
	expectedVersion := invoice.Version

	for i := 0; i < uc.markPaidMaxAttempts; i++ {
		result, err := uc.InvoiceRepository.TryMarkPaid(ctx, invoice.ID, expectedVersion)
		if err != nil {
			uc.Log.Error("settlementUsecase.markInvoicePaid ledger write failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingInvoiceIDKey, invoice.ID),
				zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
				zap.Error(err),
			)
			break
		}

		switch result.Outcome {
		case models.MarkPaidUpdated:
			uc.Log.Info("settlementUsecase.markInvoicePaid invoice marked paid",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingInvoiceIDKey, invoice.ID),
				zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
				zap.Int64(constvars.LoggingInvoiceVersionKey, result.Invoice.Version),
			)
			return responses.SettlementPaid, string(result.Invoice.Status)

		case models.MarkPaidAlreadyPaid:
			// Someone else finished the transition; the payer still gets paid.
			return responses.SettlementPaid, string(models.InvoicePaid)

		case models.MarkPaidVersionConflict:
			expectedVersion = result.Invoice.Version
			select {
			case <-time.After(uc.markPaidBackoff << i):
			case <-ctx.Done():
				i = uc.markPaidMaxAttempts
			}

		default:
			// not_found or not_payable with a completed payment is a
			// divergence only the reconciler (or an operator) can resolve.
			uc.Log.Error("settlementUsecase.markInvoicePaid invoice not transitionable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingInvoiceIDKey, invoice.ID),
				zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
				zap.String(constvars.LoggingOperationKey, string(result.Outcome)),
			)
			i = uc.markPaidMaxAttempts
		}
	}

	uc.fileReconciliationEntry(ctx, requestID, invoice.ID, attempt.ID)
	return responses.SettlementPendingReconciliation, string(invoice.Status)
}

// fileReconciliationEntry is best effort: if the entry cannot be written the
// sweep still finds the completed payment through the orphan scan.
func (uc *settlementUsecase) fileReconciliationEntry(ctx context.Context, requestID, invoiceID, paymentID string) {
	existing, err := uc.ReconciliationRepository.FindByPaymentID(ctx, paymentID)
	if err == nil && existing != nil {
		return
	}

	_, err = uc.ReconciliationRepository.CreateEntry(ctx, &models.ReconciliationEntry{
		InvoiceID: invoiceID,
		PaymentID: paymentID,
	})
	if err != nil {
		uc.Log.Error("settlementUsecase.fileReconciliationEntry entry write failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return
	}

	uc.Log.Warn("settlementUsecase.fileReconciliationEntry settlement deferred to reconciler",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingInvoiceIDKey, invoiceID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)
}

func (uc *settlementUsecase) publishOutcome(ctx context.Context, invoice *models.Invoice, attempt *models.PaymentAttempt, outcome, method string) {
	err := uc.EventPublisher.PublishSettlementOutcome(ctx, &contracts.SettlementEvent{
		InvoiceID: invoice.ID,
		PaymentID: attempt.ID,
		OwnerID:   invoice.OwnerID,
		Outcome:   outcome,
		Amount:    invoice.Amount,
		Currency:  invoice.Currency,
		Method:    method,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		uc.Log.Warn("settlementUsecase.publishOutcome event dropped",
			zap.String(constvars.LoggingInvoiceIDKey, invoice.ID),
			zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
			zap.Error(err),
		)
	}
}
