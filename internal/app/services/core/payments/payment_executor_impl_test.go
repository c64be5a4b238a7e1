package payments

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memoryPaymentRepo enforces token uniqueness the way the mongo unique index
// does, so the insert race behaves like production.
type memoryPaymentRepo struct {
	mu             sync.Mutex
	byToken        map[string]*models.PaymentAttempt
	byID           map[string]*models.PaymentAttempt
	markOutcomeErr error
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{
		byToken: make(map[string]*models.PaymentAttempt),
		byID:    make(map[string]*models.PaymentAttempt),
	}
}

func (r *memoryPaymentRepo) clone(a *models.PaymentAttempt) *models.PaymentAttempt {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

func (r *memoryPaymentRepo) FindByID(ctx context.Context, paymentID string) (*models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone(r.byID[paymentID]), nil
}

func (r *memoryPaymentRepo) FindByToken(ctx context.Context, token string) (*models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clone(r.byToken[token]), nil
}

func (r *memoryPaymentRepo) FindByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentAttempt
	for _, a := range r.byID {
		if a.InvoiceID == invoiceID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memoryPaymentRepo) CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byToken[attempt.IdempotencyToken]; exists {
		return contracts.ErrDuplicateToken
	}
	stored := r.clone(attempt)
	r.byToken[stored.IdempotencyToken] = stored
	r.byID[stored.ID] = stored
	return nil
}

func (r *memoryPaymentRepo) MarkOutcome(ctx context.Context, paymentID string, status models.PaymentStatus, gatewayRef, failureReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markOutcomeErr != nil {
		return r.markOutcomeErr
	}
	stored, ok := r.byID[paymentID]
	if !ok {
		return nil
	}
	stored.Status = status
	stored.GatewayRef = gatewayRef
	stored.FailureReason = failureReason
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryPaymentRepo) FindCompletedSince(ctx context.Context, since time.Time, limit int) ([]models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentAttempt
	for _, a := range r.byID {
		if a.Status == models.PaymentCompleted && !a.UpdatedAt.Before(since) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type countingGateway struct {
	calls  int32
	delay  time.Duration
	result *contracts.ChargeResult
	err    error
}

func (g *countingGateway) Charge(ctx context.Context, input *contracts.ChargeInput) (*contracts.ChargeResult, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: make(map[string]string)}
}

func (r *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[key], nil
}

func (r *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = string(payload)
	return nil
}

func (r *memoryRedis) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[key]; exists {
		return false, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	r.data[key] = string(payload)
	return true, nil
}

func newTestExecutor(repo *memoryPaymentRepo, gw *countingGateway, cache *memoryRedis) *paymentExecutor {
	return &paymentExecutor{
		PaymentRepository:  repo,
		Gateway:            gw,
		RedisRepository:    cache,
		Log:                zap.NewNop(),
		outcomeCacheTTL:    time.Minute,
		pendingGraceWindow: 5 * time.Second,
	}
}

func approvedGateway() *countingGateway {
	return &countingGateway{result: &contracts.ChargeResult{Approved: true, GatewayRef: "gw-ref-1"}}
}

func testInput() *contracts.ExecutePaymentInput {
	return &contracts.ExecutePaymentInput{
		InvoiceID:        "INV-42",
		Amount:           10164,
		Currency:         "USD",
		Method:           "card",
		IdempotencyToken: "T1",
	}
}

func TestExecute_ChargesOnceAndPersistsOutcome(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := approvedGateway()
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, attempt.Status)
	assert.Equal(t, "gw-ref-1", attempt.GatewayRef)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.calls))

	stored, _ := repo.FindByToken(context.Background(), "T1")
	assert.Equal(t, models.PaymentCompleted, stored.Status)
}

func TestExecute_ReplaySameTokenReturnsSameAttempt(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := approvedGateway()
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	first, err := executor.Execute(context.Background(), testInput())
	assert.NoError(t, err)

	second, err := executor.Execute(context.Background(), testInput())
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.GatewayRef, second.GatewayRef)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.calls))
}

func TestExecute_ReplayServedFromCacheSkipsLedger(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := approvedGateway()
	cache := newMemoryRedis()
	executor := newTestExecutor(repo, gw, cache)

	cached := &models.PaymentAttempt{
		ID:               "P-cached",
		InvoiceID:        "INV-42",
		IdempotencyToken: "T1",
		Status:           models.PaymentCompleted,
		GatewayRef:       "gw-ref-cached",
	}
	assert.NoError(t, cache.Set(context.Background(), "payment:outcome:T1", cached, time.Minute))

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, "P-cached", attempt.ID)
	assert.EqualValues(t, 0, atomic.LoadInt32(&gw.calls))
}

func TestExecute_ConcurrentRequestsChargeOnce(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := approvedGateway()
	gw.delay = 100 * time.Millisecond
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	const workers = 10
	var wg sync.WaitGroup
	results := make([]*models.PaymentAttempt, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = executor.Execute(context.Background(), testInput())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.calls))
	for i := 0; i < workers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, results[0].ID, results[i].ID)
		assert.Equal(t, models.PaymentCompleted, results[i].Status)
	}
}

func TestExecute_DeclinedPersistsFailedAttempt(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := &countingGateway{result: &contracts.ChargeResult{Approved: false, DeclineReason: "insufficient_funds"}}
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, attempt.Status)
	assert.Equal(t, "insufficient_funds", attempt.FailureReason)

	stored, _ := repo.FindByToken(context.Background(), "T1")
	assert.Equal(t, models.PaymentFailed, stored.Status)
}

func TestExecute_GatewayTimeoutLeavesAttemptPending(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := &countingGateway{err: exceptions.ErrGatewayTimeout(nil)}
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.Nil(t, attempt)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 504, customErr.StatusCode)

	stored, _ := repo.FindByToken(context.Background(), "T1")
	assert.Equal(t, models.PaymentPending, stored.Status)
}

func TestExecute_OutcomePersistFailureSurfaces(t *testing.T) {
	repo := newMemoryPaymentRepo()
	repo.markOutcomeErr = assert.AnError
	gw := approvedGateway()
	executor := newTestExecutor(repo, gw, newMemoryRedis())

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.Nil(t, attempt)
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 500, customErr.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.calls))
}

func TestExecute_StalePendingAttemptIsReDriven(t *testing.T) {
	repo := newMemoryPaymentRepo()
	gw := approvedGateway()
	executor := newTestExecutor(repo, gw, newMemoryRedis())
	executor.pendingGraceWindow = time.Second

	orphan := &models.PaymentAttempt{
		ID:               "P-orphan",
		InvoiceID:        "INV-42",
		IdempotencyToken: "T1",
		Status:           models.PaymentPending,
		CreatedAt:        time.Now().UTC().Add(-time.Minute),
	}
	assert.NoError(t, repo.CreateAttempt(context.Background(), orphan))

	attempt, err := executor.Execute(context.Background(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, "P-orphan", attempt.ID)
	assert.Equal(t, models.PaymentCompleted, attempt.Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.calls))
}
