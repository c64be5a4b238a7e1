package gateway

import (
	"bytes"
	"context"
	"net/http"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	gatewayInstance contracts.PaymentGateway
	onceGateway     sync.Once
)

type httpGateway struct {
	baseUrl string
	apiKey  string
	client  *http.Client
	Log     *zap.Logger
}

func NewHTTPGateway(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGateway {
	onceGateway.Do(func() {
		timeout := time.Duration(internalConfig.PaymentGateway.RequestTimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		instance := &httpGateway{
			baseUrl: internalConfig.PaymentGateway.BaseUrl,
			apiKey:  internalConfig.PaymentGateway.ApiKey,
			client:  &http.Client{Timeout: timeout},
			Log:     logger,
		}
		gatewayInstance = instance
	})
	return gatewayInstance
}

type chargeRequestBody struct {
	Reference string      `json:"reference"`
	Amount    int64       `json:"amount"`
	Currency  string      `json:"currency"`
	Method    string      `json:"method"`
	Details   interface{} `json:"details,omitempty"`
}

type chargeResponseBody struct {
	Approved      bool   `json:"approved"`
	GatewayRef    string `json:"gateway_ref"`
	DeclineReason string `json:"decline_reason,omitempty"`
}

func (g *httpGateway) Charge(ctx context.Context, input *contracts.ChargeInput) (*contracts.ChargeResult, error) {
	body := chargeRequestBody{
		Reference: input.Token,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Method:    input.Method,
		Details:   input.PaymentDetails,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseUrl+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, exceptions.ErrGatewayTimeout(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", g.apiKey)
	// The reference doubles as the provider-side idempotency key, so even the
	// narrow crash window cannot double-charge on a well-behaved provider.
	req.Header.Set("Idempotency-Key", input.Token)

	resp, err := g.client.Do(req)
	if err != nil {
		// Transport failures and deadlines are indistinguishable from a charge
		// that never happened; both are transient from the caller's view.
		return nil, exceptions.ErrGatewayTimeout(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, exceptions.ErrGatewayTimeout(nil)
	}

	var out chargeResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, exceptions.ErrGatewayTimeout(err)
	}

	return &contracts.ChargeResult{
		Approved:      out.Approved,
		GatewayRef:    out.GatewayRef,
		DeclineReason: out.DeclineReason,
	}, nil
}
