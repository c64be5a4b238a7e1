package payments

import (
	"context"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/exceptions"
	"settlement-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	paymentExecutorInstance contracts.PaymentExecutor
	oncePaymentExecutor     sync.Once
)

// pendingPollInterval paces the wait for a concurrent executor that is
// mid-charge on the same token.
const pendingPollInterval = 50 * time.Millisecond

type paymentExecutor struct {
	PaymentRepository contracts.PaymentRepository
	Gateway           contracts.PaymentGateway
	RedisRepository   contracts.RedisRepository
	Log               *zap.Logger
	outcomeCacheTTL   time.Duration
	// pendingGraceWindow separates an in-flight attempt from one abandoned by
	// a crashed process. Within the window the gateway is never re-driven.
	pendingGraceWindow time.Duration
}

func NewPaymentExecutor(
	paymentRepository contracts.PaymentRepository,
	paymentGateway contracts.PaymentGateway,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentExecutor {
	oncePaymentExecutor.Do(func() {
		instance := &paymentExecutor{
			PaymentRepository:  paymentRepository,
			Gateway:            paymentGateway,
			RedisRepository:    redisRepository,
			Log:                logger,
			outcomeCacheTTL:    time.Duration(internalConfig.Settlement.OutcomeCacheTTLInMinutes) * time.Minute,
			pendingGraceWindow: time.Duration(internalConfig.Settlement.ExecutionTimeoutInSeconds) * time.Second,
		}
		paymentExecutorInstance = instance
	})
	return paymentExecutorInstance
}

// Execute charges the gateway at most once per idempotency token. A replay of
// a token whose attempt already reached a terminal status returns that stored
// attempt without touching the gateway. The terminal outcome is persisted to
// the payment ledger before it is returned; if that persist fails the caller
// sees ErrPaymentPersistence and the reconciler owns the repair.
func (e *paymentExecutor) Execute(ctx context.Context, input *contracts.ExecutePaymentInput) (*models.PaymentAttempt, error) {
	requestID := utils.GetRequestID(ctx)

	if cached := e.cachedOutcome(ctx, input.IdempotencyToken); cached != nil {
		e.Log.Info("paymentExecutor.Execute replay served from outcome cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, cached.ID),
			zap.String(constvars.LoggingIdempotencyKey, input.IdempotencyToken),
		)
		return cached, nil
	}

	existing, err := e.PaymentRepository.FindByToken(ctx, input.IdempotencyToken)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Terminal() {
		e.cacheOutcome(ctx, existing)
		e.Log.Info("paymentExecutor.Execute replay served from ledger",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, existing.ID),
			zap.String(constvars.LoggingIdempotencyKey, input.IdempotencyToken),
		)
		return existing, nil
	}

	owned := false
	attempt := existing
	if attempt == nil {
		attempt = &models.PaymentAttempt{
			ID:               "PAY-" + uuid.NewString(),
			InvoiceID:        input.InvoiceID,
			Amount:           input.Amount,
			Currency:         input.Currency,
			Method:           input.Method,
			IdempotencyToken: input.IdempotencyToken,
			Status:           models.PaymentPending,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		}
		err := e.PaymentRepository.CreateAttempt(ctx, attempt)
		switch err {
		case nil:
			owned = true
		case contracts.ErrDuplicateToken:
			// Lost the insert race; the winner's attempt is authoritative.
			attempt, err = e.PaymentRepository.FindByToken(ctx, input.IdempotencyToken)
			if err != nil {
				return nil, err
			}
			if attempt == nil {
				return nil, exceptions.ErrPaymentPersistence(contracts.ErrDuplicateToken)
			}
		default:
			return nil, err
		}
	}

	if !owned {
		if attempt.Terminal() {
			e.cacheOutcome(ctx, attempt)
			return attempt, nil
		}
		if !e.stalePending(attempt) {
			// Another executor owns the charge. Wait for its outcome instead
			// of invoking the gateway a second time.
			resolved, err := e.awaitInFlight(ctx, attempt)
			if err != nil {
				return nil, err
			}
			if resolved != nil {
				e.cacheOutcome(ctx, resolved)
				return resolved, nil
			}
		}
		// The pending attempt is orphaned by a crashed process. Adopt it and
		// re-drive the charge; the provider-side idempotency key keeps a
		// well-behaved gateway from charging twice.
		e.Log.Warn("paymentExecutor.Execute re-driving orphaned pending attempt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
			zap.String(constvars.LoggingIdempotencyKey, input.IdempotencyToken),
		)
	}

	result, chargeErr := e.Gateway.Charge(ctx, &contracts.ChargeInput{
		InvoiceID:      input.InvoiceID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		Method:         input.Method,
		Token:          input.IdempotencyToken,
		PaymentDetails: input.PaymentDetails,
	})
	if chargeErr != nil {
		// No response means no knowledge of the charge; the attempt stays
		// pending so a later execution or the reconciler can settle it.
		e.Log.Warn("paymentExecutor.Execute gateway call failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
			zap.String(constvars.LoggingInvoiceIDKey, input.InvoiceID),
			zap.Error(chargeErr),
		)
		return nil, chargeErr
	}

	status := models.PaymentCompleted
	failureReason := ""
	if !result.Approved {
		status = models.PaymentFailed
		failureReason = result.DeclineReason
	}

	if err := e.PaymentRepository.MarkOutcome(ctx, attempt.ID, status, result.GatewayRef, failureReason); err != nil {
		// The money may have moved but the ledger does not know. This is the
		// one failure that must never be reported as a clean decline.
		e.Log.Error(constvars.ErrDevPaymentOutcomeNotPersisted,
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
			zap.String(constvars.LoggingInvoiceIDKey, input.InvoiceID),
			zap.String(constvars.LoggingGatewayRefKey, result.GatewayRef),
			zap.String(constvars.LoggingPaymentStatusKey, string(status)),
			zap.Error(err),
		)
		return nil, exceptions.ErrPaymentPersistence(err)
	}

	attempt.Status = status
	attempt.GatewayRef = result.GatewayRef
	attempt.FailureReason = failureReason
	attempt.UpdatedAt = time.Now().UTC()

	e.cacheOutcome(ctx, attempt)

	e.Log.Info("paymentExecutor.Execute outcome persisted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
		zap.String(constvars.LoggingInvoiceIDKey, input.InvoiceID),
		zap.String(constvars.LoggingPaymentStatusKey, string(status)),
	)
	return attempt, nil
}

func (e *paymentExecutor) stalePending(attempt *models.PaymentAttempt) bool {
	return time.Since(attempt.CreatedAt) >= e.pendingGraceWindow
}

// awaitInFlight polls the ledger until the in-flight attempt reaches a
// terminal status. It returns nil without error once the grace window has
// passed, signalling the caller to adopt the attempt.
func (e *paymentExecutor) awaitInFlight(ctx context.Context, attempt *models.PaymentAttempt) (*models.PaymentAttempt, error) {
	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, exceptions.ErrGatewayTimeout(ctx.Err())
		case <-ticker.C:
			current, err := e.PaymentRepository.FindByToken(ctx, attempt.IdempotencyToken)
			if err != nil {
				return nil, err
			}
			if current != nil && current.Terminal() {
				return current, nil
			}
			if e.stalePending(attempt) {
				return nil, nil
			}
		}
	}
}

// cachedOutcome is a read-through fast path; any cache error degrades to the
// ledger lookup.
func (e *paymentExecutor) cachedOutcome(ctx context.Context, token string) *models.PaymentAttempt {
	data, err := e.RedisRepository.Get(ctx, constvars.RedisKeyPaymentOutcomePrefix+token)
	if err != nil || data == "" {
		return nil
	}
	var attempt models.PaymentAttempt
	if err := json.Unmarshal([]byte(data), &attempt); err != nil {
		return nil
	}
	if !attempt.Terminal() {
		return nil
	}
	return &attempt
}

func (e *paymentExecutor) cacheOutcome(ctx context.Context, attempt *models.PaymentAttempt) {
	if !attempt.Terminal() {
		return
	}
	err := e.RedisRepository.Set(ctx, constvars.RedisKeyPaymentOutcomePrefix+attempt.IdempotencyToken, attempt, e.outcomeCacheTTL)
	if err != nil {
		e.Log.Warn("paymentExecutor.cacheOutcome cache write failed",
			zap.String(constvars.LoggingPaymentIDKey, attempt.ID),
			zap.Error(err),
		)
	}
}
