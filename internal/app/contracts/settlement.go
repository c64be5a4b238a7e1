package contracts

import (
	"context"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
)

type SettlementUsecase interface {
	Settle(ctx context.Context, requester *models.Identity, request *requests.SettleInvoice) (*responses.Settlement, error)
}
