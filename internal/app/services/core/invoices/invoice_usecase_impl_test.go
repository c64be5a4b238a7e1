package invoices

import (
	"context"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/requests"
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

func newTestInvoiceUsecase(repo *MockInvoiceRepository) *invoiceUsecase {
	return &invoiceUsecase{InvoiceRepository: repo, Log: zap.NewNop()}
}

func TestGetInvoice_OwnerMayRead(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("FindByID", mock.Anything, "INV-42").Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Amount: 10164, Status: models.InvoicePending,
	}, nil)

	owner := &models.Identity{UserID: "U1", Role: "user"}
	invoice, err := uc.GetInvoice(context.Background(), owner, "INV-42")

	assert.NoError(t, err)
	assert.Equal(t, "INV-42", invoice.ID)
	assert.Equal(t, int64(10164), invoice.Amount)
}

func TestGetInvoice_StrangerIsForbidden(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("FindByID", mock.Anything, "INV-42").Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Status: models.InvoicePending,
	}, nil)

	stranger := &models.Identity{UserID: "U2", Role: "user"}
	invoice, err := uc.GetInvoice(context.Background(), stranger, "INV-42")

	assert.Nil(t, invoice)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
}

func TestGetInvoice_AdminMayReadAny(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("FindByID", mock.Anything, "INV-42").Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Status: models.InvoicePaid,
	}, nil)

	admin := &models.Identity{UserID: "ops-1", Role: "admin"}
	invoice, err := uc.GetInvoice(context.Background(), admin, "INV-42")

	assert.NoError(t, err)
	assert.Equal(t, "INV-42", invoice.ID)
}

func TestGetInvoice_NotFound(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("FindByID", mock.Anything, "INV-missing").Return(nil, nil)

	owner := &models.Identity{UserID: "U1", Role: "user"}
	invoice, err := uc.GetInvoice(context.Background(), owner, "INV-missing")

	assert.Nil(t, invoice)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 404, customErr.StatusCode)
}

func TestCreateInvoice_RequiresAdmin(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	request := &requests.CreateInvoice{OwnerID: "U1", Amount: 10164, Currency: "USD"}
	user := &models.Identity{UserID: "U1", Role: "user"}

	invoice, err := uc.CreateInvoice(context.Background(), user, request)

	assert.Nil(t, invoice)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
	repo.AssertNotCalled(t, "CreateInvoice")
}

func TestCreateInvoice_AdminCreatesPendingVersionZero(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("CreateInvoice", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(&models.Invoice{
		ID: "INV-42", OwnerID: "U1", Amount: 10164, Currency: "USD", Status: models.InvoicePending, Version: 0,
	}, nil)

	admin := &models.Identity{UserID: "ops-1", Role: "admin"}
	request := &requests.CreateInvoice{OwnerID: "U1", Amount: 10164, Currency: "USD"}

	invoice, err := uc.CreateInvoice(context.Background(), admin, request)

	assert.NoError(t, err)
	assert.Equal(t, "pending", invoice.Status)
	assert.Equal(t, int64(0), invoice.Version)
}

func TestListByOwner_OwnerAndAdminOnly(t *testing.T) {
	repo := new(MockInvoiceRepository)
	uc := newTestInvoiceUsecase(repo)

	repo.On("FindByOwner", mock.Anything, "U1").Return([]models.Invoice{
		{ID: "INV-1", OwnerID: "U1"},
		{ID: "INV-2", OwnerID: "U1"},
	}, nil)

	owner := &models.Identity{UserID: "U1", Role: "user"}
	invoices, err := uc.ListByOwner(context.Background(), owner, "U1")
	assert.NoError(t, err)
	assert.Len(t, invoices, 2)

	stranger := &models.Identity{UserID: "U2", Role: "user"}
	_, err = uc.ListByOwner(context.Background(), stranger, "U1")
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 403, customErr.StatusCode)
}
