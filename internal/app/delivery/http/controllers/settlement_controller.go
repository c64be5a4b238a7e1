package controllers

import (
	"context"
	"net/http"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/dto/requests"
	"settlement-service/internal/pkg/dto/responses"
	"settlement-service/internal/pkg/exceptions"
	"settlement-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SettlementController struct {
	Log               *zap.Logger
	SettlementUsecase contracts.SettlementUsecase
}

var (
	settlementControllerInstance *SettlementController
	onceSettlementController     sync.Once
)

func NewSettlementController(logger *zap.Logger, settlementUsecase contracts.SettlementUsecase) *SettlementController {
	onceSettlementController.Do(func() {
		instance := &SettlementController{
			Log:               logger,
			SettlementUsecase: settlementUsecase,
		}
		settlementControllerInstance = instance
	})
	return settlementControllerInstance
}

func (ctrl *SettlementController) Settle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity := utils.GetIdentity(r.Context())
	if identity == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.SettleInvoice)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("Failed to parse settlement request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "JSON parsing"),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	settlement, err := ctrl.SettlementUsecase.Settle(ctx, identity, request)
	if err != nil {
		ctrl.Log.Error("Failed to settle invoice",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingInvoiceIDKey, request.InvoiceID),
			zap.String(constvars.LoggingErrorTypeKey, "usecase error"),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "invoice_settlement_finished", requestID,
		zap.String(constvars.LoggingInvoiceIDKey, request.InvoiceID),
		zap.String(constvars.LoggingPaymentIDKey, settlement.PaymentID),
		zap.String("settlement_outcome", string(settlement.Outcome)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)

	switch settlement.Outcome {
	case responses.SettlementPendingReconciliation:
		utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.SettlementPendingSuccess, settlement)
	case responses.SettlementDeclined:
		utils.BuildSuccessResponse(w, constvars.StatusPaymentRequired, constvars.SettlementDeclinedByGateway, settlement)
	default:
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SettlementPaidSuccess, settlement)
	}
}
