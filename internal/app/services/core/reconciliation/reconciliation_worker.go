package reconciliation

import (
	"context"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// orphanScanLookback bounds how far back the sweep searches for completed
// payments that never got a reconciliation entry. A crash window is measured
// in seconds, so a day of slack is generous.
const orphanScanLookback = 24 * time.Hour

// Worker periodically repairs the divergence between a completed payment and
// a still-pending invoice. A distributed lock keeps the sweep single-flight
// across replicas.
type Worker struct {
	ReconciliationRepository contracts.ReconciliationRepository
	InvoiceRepository        contracts.InvoiceRepository
	PaymentRepository        contracts.PaymentRepository
	Locker                   contracts.LockerService
	Log                      *zap.Logger
	sweepInterval            time.Duration
	lockTTL                  time.Duration
	escalationCeiling        int
	batchSize                int
}

func NewWorker(
	reconciliationRepository contracts.ReconciliationRepository,
	invoiceRepository contracts.InvoiceRepository,
	paymentRepository contracts.PaymentRepository,
	locker contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		ReconciliationRepository: reconciliationRepository,
		InvoiceRepository:        invoiceRepository,
		PaymentRepository:        paymentRepository,
		Locker:                   locker,
		Log:                      logger,
		sweepInterval:            time.Duration(internalConfig.Reconciliation.SweepIntervalInSeconds) * time.Second,
		lockTTL:                  time.Duration(internalConfig.Reconciliation.LockTTLInSeconds) * time.Second,
		escalationCeiling:        internalConfig.Reconciliation.EscalationCeiling,
		batchSize:                internalConfig.Reconciliation.SweepBatchSize,
	}
}

// Run blocks until ctx is cancelled. It sweeps once immediately and then on
// every tick, skipping ticks where another replica holds the lock.
func (w *Worker) Run(ctx context.Context) {
	w.sweepWithLock(ctx)

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("reconciliationWorker.Run stopping")
			return
		case <-ticker.C:
			w.sweepWithLock(ctx)
		}
	}
}

func (w *Worker) sweepWithLock(ctx context.Context) {
	acquired, lockValue, err := w.Locker.TryLock(ctx, constvars.RedisKeyReconcilerLock, w.lockTTL)
	if err != nil {
		w.Log.Warn("reconciliationWorker.sweepWithLock lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.Locker.Unlock(ctx, constvars.RedisKeyReconcilerLock, lockValue); err != nil {
			w.Log.Warn("reconciliationWorker.sweepWithLock unlock failed", zap.Error(err))
		}
	}()

	w.SweepOnce(ctx)
}

// SweepOnce runs one full sweep: adopt orphaned completed payments into the
// reconciliation set, then attempt to repair every open entry.
func (w *Worker) SweepOnce(ctx context.Context) {
	w.adoptOrphans(ctx)
	w.processOpenEntries(ctx)
}

// adoptOrphans covers the crash window where the orchestrator completed a
// payment but died before filing an entry. Any completed payment whose invoice
// is still pending gets an entry here.
func (w *Worker) adoptOrphans(ctx context.Context) {
	since := time.Now().UTC().Add(-orphanScanLookback)
	completed, err := w.PaymentRepository.FindCompletedSince(ctx, since, w.batchSize)
	if err != nil {
		w.Log.Error("reconciliationWorker.adoptOrphans scan failed", zap.Error(err))
		return
	}

	for _, payment := range completed {
		invoice, err := w.InvoiceRepository.FindByID(ctx, payment.InvoiceID)
		if err != nil || invoice == nil || invoice.Status != models.InvoicePending {
			continue
		}

		existing, err := w.ReconciliationRepository.FindByPaymentID(ctx, payment.ID)
		if err != nil || existing != nil {
			continue
		}

		_, err = w.ReconciliationRepository.CreateEntry(ctx, &models.ReconciliationEntry{
			InvoiceID: payment.InvoiceID,
			PaymentID: payment.ID,
		})
		if err != nil {
			w.Log.Error("reconciliationWorker.adoptOrphans entry write failed",
				zap.String(constvars.LoggingPaymentIDKey, payment.ID),
				zap.String(constvars.LoggingInvoiceIDKey, payment.InvoiceID),
				zap.Error(err),
			)
			continue
		}

		w.Log.Warn("reconciliationWorker.adoptOrphans adopted orphaned payment",
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingInvoiceIDKey, payment.InvoiceID),
		)
	}
}

func (w *Worker) processOpenEntries(ctx context.Context) {
	entries, err := w.ReconciliationRepository.FindOpen(ctx, w.batchSize)
	if err != nil {
		w.Log.Error("reconciliationWorker.processOpenEntries scan failed", zap.Error(err))
		return
	}

	for i := range entries {
		w.repairEntry(ctx, &entries[i])
	}
}

// repairEntry attempts the invoice transition once. Resolution requires the
// invoice to end up paid; every other outcome counts against the escalation
// ceiling, and past the ceiling the entry is handed to a human.
func (w *Worker) repairEntry(ctx context.Context, entry *models.ReconciliationEntry) {
	now := time.Now().UTC()

	payment, err := w.PaymentRepository.FindByID(ctx, entry.PaymentID)
	if err != nil {
		w.failAttempt(ctx, entry, now, err)
		return
	}
	if payment == nil || payment.Status != models.PaymentCompleted {
		// Nothing to repair: the payment never completed, so the pending
		// invoice is the correct state.
		w.resolve(ctx, entry, now)
		return
	}

	invoice, err := w.InvoiceRepository.FindByID(ctx, entry.InvoiceID)
	if err != nil {
		w.failAttempt(ctx, entry, now, err)
		return
	}
	if invoice == nil {
		w.failAttempt(ctx, entry, now, nil)
		return
	}
	if invoice.Status == models.InvoicePaid {
		w.resolve(ctx, entry, now)
		return
	}

	result, err := w.InvoiceRepository.TryMarkPaid(ctx, invoice.ID, invoice.Version)
	if err != nil {
		w.failAttempt(ctx, entry, now, err)
		return
	}

	switch result.Outcome {
	case models.MarkPaidUpdated, models.MarkPaidAlreadyPaid:
		w.Log.Info("reconciliationWorker.repairEntry invoice repaired",
			zap.String(constvars.LoggingEntryIDKey, entry.ID),
			zap.String(constvars.LoggingInvoiceIDKey, entry.InvoiceID),
			zap.String(constvars.LoggingPaymentIDKey, entry.PaymentID),
			zap.Int(constvars.LoggingAttemptsKey, entry.Attempts+1),
		)
		w.resolve(ctx, entry, now)
	default:
		w.failAttempt(ctx, entry, now, nil)
	}
}

func (w *Worker) resolve(ctx context.Context, entry *models.ReconciliationEntry, now time.Time) {
	err := w.ReconciliationRepository.UpdateSweepResult(ctx, entry.ID, models.ReconciliationResolved, entry.Attempts+1, now)
	if err != nil {
		w.Log.Error("reconciliationWorker.resolve status write failed",
			zap.String(constvars.LoggingEntryIDKey, entry.ID),
			zap.Error(err),
		)
	}
}

func (w *Worker) failAttempt(ctx context.Context, entry *models.ReconciliationEntry, now time.Time, cause error) {
	attempts := entry.Attempts + 1
	status := models.ReconciliationOpen
	if attempts >= w.escalationCeiling {
		status = models.ReconciliationEscalated
	}

	if status == models.ReconciliationEscalated {
		w.Log.Error("reconciliationWorker.failAttempt entry escalated for operator review",
			zap.String(constvars.LoggingEntryIDKey, entry.ID),
			zap.String(constvars.LoggingInvoiceIDKey, entry.InvoiceID),
			zap.String(constvars.LoggingPaymentIDKey, entry.PaymentID),
			zap.Int(constvars.LoggingAttemptsKey, attempts),
			zap.Error(cause),
		)
	} else {
		w.Log.Warn("reconciliationWorker.failAttempt repair attempt failed",
			zap.String(constvars.LoggingEntryIDKey, entry.ID),
			zap.String(constvars.LoggingInvoiceIDKey, entry.InvoiceID),
			zap.Int(constvars.LoggingAttemptsKey, attempts),
			zap.Error(cause),
		)
	}

	err := w.ReconciliationRepository.UpdateSweepResult(ctx, entry.ID, status, attempts, now)
	if err != nil {
		w.Log.Error("reconciliationWorker.failAttempt status write failed",
			zap.String(constvars.LoggingEntryIDKey, entry.ID),
			zap.Error(err),
		)
	}
}
