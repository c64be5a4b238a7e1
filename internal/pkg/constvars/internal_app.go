package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IDENTITY_KEY             ContextKey = "identity"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "STLMT_SVC_"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ResourceInvoices    = "invoices"
	ResourcePayments    = "payments"
	ResourceSettlements = "settlements"
)

const (
	MongoCollectionInvoices              = "invoices"
	MongoCollectionPaymentAttempts       = "payment_attempts"
	MongoCollectionReconciliationEntries = "reconciliation_entries"
)

const (
	RedisKeyPaymentOutcomePrefix = "payment:outcome:"
	RedisKeyReconcilerLock       = "reconciliation:worker:lock"
)
