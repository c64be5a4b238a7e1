package contracts

import (
	"context"
	"errors"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
	"time"
)

// ErrDuplicateToken reports that another attempt already holds the
// idempotency token. Callers re-read the existing attempt instead of failing.
var ErrDuplicateToken = errors.New("idempotency token already exists")

// PaymentRepository is the payment ledger, keyed by the unique idempotency
// token. CreateAttempt must fail with ErrDuplicateToken semantics when the
// token already exists, so that concurrent executors collapse to one attempt.
type PaymentRepository interface {
	FindByID(ctx context.Context, paymentID string) (*models.PaymentAttempt, error)
	FindByToken(ctx context.Context, token string) (*models.PaymentAttempt, error)
	FindByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentAttempt, error)
	CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error
	MarkOutcome(ctx context.Context, paymentID string, status models.PaymentStatus, gatewayRef, failureReason string) error
	FindCompletedSince(ctx context.Context, since time.Time, limit int) ([]models.PaymentAttempt, error)
}

type ExecutePaymentInput struct {
	InvoiceID        string
	Amount           int64
	Currency         string
	Method           string
	IdempotencyToken string
	PaymentDetails   *requests.PaymentDetails
}

// PaymentExecutor guarantees at most one gateway invocation per idempotency
// token and durably records the outcome before returning it.
type PaymentExecutor interface {
	Execute(ctx context.Context, input *ExecutePaymentInput) (*models.PaymentAttempt, error)
}

type PaymentUsecase interface {
	GetPayment(ctx context.Context, requester *models.Identity, paymentID string) (*responses.Payment, error)
	ListByInvoice(ctx context.Context, requester *models.Identity, invoiceID string) ([]responses.Payment, error)
}
