package payments

import (
	"context"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) TryMarkPaid(ctx context.Context, invoiceID string, expectedVersion int64) (*models.MarkPaidResult, error) {
	args := m.Called(ctx, invoiceID, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarkPaidResult), args.Error(1)
}

func TestGetPayment_OwnershipResolvedThroughInvoice(t *testing.T) {
	paymentRepo := newMemoryPaymentRepo()
	invoiceRepo := new(MockInvoiceRepository)
	uc := &paymentUsecase{PaymentRepository: paymentRepo, InvoiceRepository: invoiceRepo, Log: zap.NewNop()}

	attempt := &models.PaymentAttempt{ID: "P1", InvoiceID: "INV-42", IdempotencyToken: "T1", Status: models.PaymentCompleted}
	assert.NoError(t, paymentRepo.CreateAttempt(context.Background(), attempt))

	invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Status: models.InvoicePaid,
	}, nil)

	owner := &models.Identity{UserID: "U1", Role: "user"}
	payment, err := uc.GetPayment(context.Background(), owner, "P1")
	assert.NoError(t, err)
	assert.Equal(t, "P1", payment.ID)

	stranger := &models.Identity{UserID: "U2", Role: "user"}
	payment, err = uc.GetPayment(context.Background(), stranger, "P1")
	assert.Nil(t, payment)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
}

func TestGetPayment_NotFound(t *testing.T) {
	paymentRepo := newMemoryPaymentRepo()
	invoiceRepo := new(MockInvoiceRepository)
	uc := &paymentUsecase{PaymentRepository: paymentRepo, InvoiceRepository: invoiceRepo, Log: zap.NewNop()}

	owner := &models.Identity{UserID: "U1", Role: "user"}
	payment, err := uc.GetPayment(context.Background(), owner, "P-missing")

	assert.Nil(t, payment)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 404, customErr.StatusCode)
}

func TestListByInvoice_RequiresInvoiceAccess(t *testing.T) {
	paymentRepo := newMemoryPaymentRepo()
	invoiceRepo := new(MockInvoiceRepository)
	uc := &paymentUsecase{PaymentRepository: paymentRepo, InvoiceRepository: invoiceRepo, Log: zap.NewNop()}

	assert.NoError(t, paymentRepo.CreateAttempt(context.Background(), &models.PaymentAttempt{
		ID: "P1", InvoiceID: "INV-42", IdempotencyToken: "T1", Status: models.PaymentFailed,
	}))
	assert.NoError(t, paymentRepo.CreateAttempt(context.Background(), &models.PaymentAttempt{
		ID: "P2", InvoiceID: "INV-42", IdempotencyToken: "T2", Status: models.PaymentCompleted,
	}))

	invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Status: models.InvoicePaid,
	}, nil)

	admin := &models.Identity{UserID: "ops-1", Role: "admin"}
	payments, err := uc.ListByInvoice(context.Background(), admin, "INV-42")
	assert.NoError(t, err)
	assert.Len(t, payments, 2)

	stranger := &models.Identity{UserID: "U2", Role: "user"}
	_, err = uc.ListByInvoice(context.Background(), stranger, "INV-42")
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
}
