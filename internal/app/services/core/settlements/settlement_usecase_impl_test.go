package settlements

import (
	"context"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
	"settlement-service/internal/pkg/exceptions"
	"testing"
	"time"

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

type MockPaymentExecutor struct {
	mock.Mock
}

func (m *MockPaymentExecutor) Execute(ctx context.Context, input *contracts.ExecutePaymentInput) (*models.PaymentAttempt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentAttempt), args.Error(1)
}

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) CreateEntry(ctx context.Context, entry *models.ReconciliationEntry) (*models.ReconciliationEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconciliationEntry), args.Error(1)
}

func (m *MockReconciliationRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.ReconciliationEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconciliationEntry), args.Error(1)
}

func (m *MockReconciliationRepository) FindOpen(ctx context.Context, limit int) ([]models.ReconciliationEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReconciliationEntry), args.Error(1)
}

func (m *MockReconciliationRepository) UpdateSweepResult(ctx context.Context, entryID string, status models.ReconciliationStatus, attempts int, lastAttemptAt time.Time) error {
	args := m.Called(ctx, entryID, status, attempts, lastAttemptAt)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishSettlementOutcome(ctx context.Context, event *contracts.SettlementEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type settleFixture struct {
	invoiceRepo    *MockInvoiceRepository
	executor       *MockPaymentExecutor
	reconRepo      *MockReconciliationRepository
	publisher      *MockEventPublisher
	usecase        *settlementUsecase
	pendingInvoice *models.Invoice
	completed      *models.PaymentAttempt
	request        *requests.SettleInvoice
	owner          *models.Identity
}

func newSettleFixture() *settleFixture {
	invoiceRepo := new(MockInvoiceRepository)
	executor := new(MockPaymentExecutor)
	reconRepo := new(MockReconciliationRepository)
	publisher := new(MockEventPublisher)

	usecase := &settlementUsecase{
		InvoiceRepository:        invoiceRepo,
		PaymentExecutor:          executor,
		ReconciliationRepository: reconRepo,
		EventPublisher:           publisher,
		Log:                      zap.NewNop(),
		markPaidMaxAttempts:      3,
		markPaidBackoff:          time.Millisecond,
		executionTimeout:         5 * time.Second,
	}

	return &settleFixture{
		invoiceRepo: invoiceRepo,
		executor:    executor,
		reconRepo:   reconRepo,
		publisher:   publisher,
		usecase:     usecase,
		pendingInvoice: &models.Invoice{
			ID:       "INV-42",
			OwnerID:  "U1",
			Amount:   10164,
			Currency: "USD",
			Status:   models.InvoicePending,
			Version:  0,
		},
		completed: &models.PaymentAttempt{
			ID:        "P1",
			InvoiceID: "INV-42",
			Amount:    10164,
			Currency:  "USD",
			Status:    models.PaymentCompleted,
		},
		request: &requests.SettleInvoice{
			InvoiceID:       "INV-42",
			ClientRequestID: "T1",
			Method:          "card",
		},
		owner: &models.Identity{UserID: "U1", Role: "user"},
	}
}

func TestSettle_MarksInvoicePaid(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.AnythingOfType("*contracts.ExecutePaymentInput")).Return(f.completed, nil)
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidUpdated,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePaid, Version: 1},
	}, nil).Once()
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPaid, settlement.Outcome)
	assert.Equal(t, "P1", settlement.PaymentID)
	assert.Equal(t, string(models.InvoicePaid), settlement.InvoiceStatus)

	executedInput := f.executor.Calls[0].Arguments.Get(1).(*contracts.ExecutePaymentInput)
	assert.Equal(t, int64(10164), executedInput.Amount)
	assert.NotEmpty(t, executedInput.IdempotencyToken)

	f.invoiceRepo.AssertExpectations(t)
	f.reconRepo.AssertNotCalled(t, "CreateEntry")
}

func TestSettle_InvoiceNotFound(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(nil, nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.Nil(t, settlement)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 404, customErr.StatusCode)
	f.executor.AssertNotCalled(t, "Execute")
}

func TestSettle_ForbiddenForNonOwner(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)

	stranger := &models.Identity{UserID: "U2", Role: "user"}
	settlement, err := f.usecase.Settle(context.Background(), stranger, f.request)

	assert.Nil(t, settlement)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
	f.executor.AssertNotCalled(t, "Execute")
}

func TestSettle_AdminMaySettleAnyInvoice(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidUpdated,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePaid, Version: 1},
	}, nil)
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(nil)

	admin := &models.Identity{UserID: "ops-1", Role: "admin"}
	settlement, err := f.usecase.Settle(context.Background(), admin, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPaid, settlement.Outcome)
}

func TestSettle_AlreadyPaidFailsFast(t *testing.T) {
	f := newSettleFixture()

	paid := &models.Invoice{ID: "INV-42", OwnerID: "U1", Status: models.InvoicePaid, Version: 1}
	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(paid, nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.Nil(t, settlement)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 409, customErr.StatusCode)
	f.executor.AssertNotCalled(t, "Execute")
}

func TestSettle_DeclinedLeavesInvoiceUntouched(t *testing.T) {
	f := newSettleFixture()

	declined := &models.PaymentAttempt{
		ID:            "P1",
		InvoiceID:     "INV-42",
		Status:        models.PaymentFailed,
		FailureReason: "insufficient_funds",
	}
	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(declined, nil)
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.MatchedBy(func(e *contracts.SettlementEvent) bool {
		return e.Outcome == string(responses.SettlementDeclined)
	})).Return(nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementDeclined, settlement.Outcome)
	assert.Equal(t, string(models.InvoicePending), settlement.InvoiceStatus)
	f.invoiceRepo.AssertNotCalled(t, "TryMarkPaid")
	f.reconRepo.AssertNotCalled(t, "CreateEntry")
}

func TestSettle_GatewayTimeoutSurfaces(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(nil, exceptions.ErrGatewayTimeout(nil))

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.Nil(t, settlement)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 504, customErr.StatusCode)
	f.invoiceRepo.AssertNotCalled(t, "TryMarkPaid")
}

func TestSettle_VersionConflictRetriesWithFreshVersion(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(nil)

	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidVersionConflict,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePending, Version: 2},
	}, nil).Once()
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(2)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidUpdated,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePaid, Version: 3},
	}, nil).Once()

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPaid, settlement.Outcome)
	f.invoiceRepo.AssertExpectations(t)
	f.reconRepo.AssertNotCalled(t, "CreateEntry")
}

func TestSettle_ConcurrentWinnerAlreadyMarkedPaid(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidAlreadyPaid,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePaid, Version: 1},
	}, nil).Once()
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPaid, settlement.Outcome)
	f.reconRepo.AssertNotCalled(t, "CreateEntry")
}

func TestSettle_RetryExhaustionFilesReconciliationEntry(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.MatchedBy(func(e *contracts.SettlementEvent) bool {
		return e.Outcome == string(responses.SettlementPendingReconciliation)
	})).Return(nil)

	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", mock.AnythingOfType("int64")).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidVersionConflict,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePending, Version: 7},
	}, nil)

	f.reconRepo.On("FindByPaymentID", mock.Anything, "P1").Return(nil, nil)
	f.reconRepo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(e *models.ReconciliationEntry) bool {
		return e.InvoiceID == "INV-42" && e.PaymentID == "P1"
	})).Return(&models.ReconciliationEntry{ID: "REC-1", InvoiceID: "INV-42", PaymentID: "P1"}, nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPendingReconciliation, settlement.Outcome)
	assert.Equal(t, "P1", settlement.PaymentID)
	f.invoiceRepo.AssertNumberOfCalls(t, "TryMarkPaid", 3)
	f.reconRepo.AssertExpectations(t)
}

func TestSettle_LedgerWriteErrorFilesReconciliationEntry(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(nil, exceptions.ErrMongoDBUpdateDocument(assert.AnError)).Once()
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(nil)
	f.reconRepo.On("FindByPaymentID", mock.Anything, "P1").Return(nil, nil)
	f.reconRepo.On("CreateEntry", mock.Anything, mock.Anything).Return(&models.ReconciliationEntry{ID: "REC-1"}, nil)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPendingReconciliation, settlement.Outcome)
	f.reconRepo.AssertExpectations(t)
}

func TestSettle_EventPublishFailureDoesNotChangeOutcome(t *testing.T) {
	f := newSettleFixture()

	f.invoiceRepo.On("FindByID", mock.Anything, "INV-42").Return(f.pendingInvoice, nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(f.completed, nil)
	f.invoiceRepo.On("TryMarkPaid", mock.Anything, "INV-42", int64(0)).Return(&models.MarkPaidResult{
		Outcome: models.MarkPaidUpdated,
		Invoice: &models.Invoice{ID: "INV-42", Status: models.InvoicePaid, Version: 1},
	}, nil)
	f.publisher.On("PublishSettlementOutcome", mock.Anything, mock.Anything).Return(assert.AnError)

	settlement, err := f.usecase.Settle(context.Background(), f.owner, f.request)

	assert.NoError(t, err)
	assert.Equal(t, responses.SettlementPaid, settlement.Outcome)
}
