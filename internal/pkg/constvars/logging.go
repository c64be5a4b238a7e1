package constvars

const (
	LoggingRequestIDKey       = "request_id"
	LoggingRequestKey         = "request"
	LoggingMethodKey          = "method"
	LoggingEndpointKey        = "endpoint"
	LoggingRemoteAddrKey      = "remote_addr"
	LoggingUserAgentKey       = "user_agent"
	LoggingQueryKey           = "query"
	LoggingStatusCodeKey      = "status_code"
	LoggingDurationKey        = "duration"
	LoggingSuccessKey         = "success"
	LoggingOperationKey       = "operation"
	LoggingErrorTypeKey       = "error_type"
	LoggingInvoiceIDKey       = "invoice_id"
	LoggingInvoiceStatusKey   = "invoice_status"
	LoggingInvoiceVersionKey  = "invoice_version"
	LoggingPaymentIDKey       = "payment_id"
	LoggingPaymentStatusKey   = "payment_status"
	LoggingIdempotencyKey     = "idempotency_token"
	LoggingSettlementStateKey = "settlement_state"
	LoggingEntryIDKey         = "entry_id"
	LoggingAttemptsKey        = "attempts"
	LoggingOwnerIDKey         = "owner_id"
	LoggingRequesterIDKey     = "requester_id"
	LoggingRedisKey           = "redis_key"
	LoggingQueueKey           = "queue"
	LoggingLockValueKey       = "lock_value"
	LoggingGatewayRefKey      = "gateway_ref"
)
