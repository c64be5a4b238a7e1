package middlewares

import (
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	AuthGuard      contracts.AuthGuard
	InternalConfig *config.InternalConfig
}
