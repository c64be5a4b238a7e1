package contracts

import (
	"context"
	"settlement-service/internal/pkg/dto/requests"
)

type ChargeInput struct {
	InvoiceID      string
	Amount         int64
	Currency       string
	Method         string
	Token          string
	PaymentDetails *requests.PaymentDetails
}

type ChargeResult struct {
	Approved      bool
	GatewayRef    string
	DeclineReason string
}

// PaymentGateway is the injected charge capability. A transport error or a
// deadline maps to a gateway timeout; a declined charge is a successful call
// with Approved=false.
type PaymentGateway interface {
	Charge(ctx context.Context, input *ChargeInput) (*ChargeResult, error)
}
