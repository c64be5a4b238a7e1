package contracts

import (
	"context"
	"settlement-service/internal/app/models"
)

// AuthGuard verifies a bearer credential and returns the authenticated
// identity. Any failure maps to an unauthorized error, never to a silently
// authorized request.
type AuthGuard interface {
	Validate(ctx context.Context, credential string) (*models.Identity, error)
}
