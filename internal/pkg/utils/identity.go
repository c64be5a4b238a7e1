package utils

import (
	"context"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
)

func GetIdentity(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(constvars.CONTEXT_IDENTITY_KEY).(*models.Identity); ok {
		return identity
	}
	return nil
}
