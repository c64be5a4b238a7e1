package contracts

import (
	"context"
	"settlement-service/internal/app/models"
	"time"
)

type ReconciliationRepository interface {
	CreateEntry(ctx context.Context, entry *models.ReconciliationEntry) (*models.ReconciliationEntry, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.ReconciliationEntry, error)
	FindOpen(ctx context.Context, limit int) ([]models.ReconciliationEntry, error)
	// UpdateSweepResult records one repair attempt: the new status, the
	// incremented attempt counter, and the attempt timestamp.
	UpdateSweepResult(ctx context.Context, entryID string, status models.ReconciliationStatus, attempts int, lastAttemptAt time.Time) error
}
