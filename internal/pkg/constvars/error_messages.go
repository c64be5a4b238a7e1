package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"uuid":     "must be a valid UUID",
	"numeric":  "must be a number",
	"len":      "must be %s characters long",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gt":    true,
	"gte":   true,
	"len":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientInvoiceNotFound               = "invoice not found"
	ErrClientPaymentNotFound               = "payment not found"
	ErrClientInvoiceAlreadyPaid            = "this invoice has already been paid"
	ErrClientInvoiceNotPayable             = "this invoice can no longer be paid"
	ErrClientPaymentDeclined               = "payment failed, please try again or use a different payment method"
	ErrClientPaymentGatewaySlow            = "the payment provider is taking too long to respond, please retry"
)

// Error messages for developers
const (
	ErrDevValidationFailed         = "request validation failed"
	ErrDevCannotParseJSON          = "failed to parse JSON request body"
	ErrDevServerDeadlineExceeded   = "server deadline exceeded"
	ErrDevAuthTokenMissing         = "authorization token missing from request"
	ErrDevAuthTokenInvalidOrExpired = "authorization token is invalid or expired"
	ErrDevRequesterNotOwnerNorAdmin = "requester is neither the resource owner nor an admin"
	ErrDevInvoiceNotFound          = "invoice does not exist in the invoice ledger"
	ErrDevPaymentNotFound          = "payment attempt does not exist in the payment ledger"
	ErrDevInvoiceAlreadyPaid       = "invoice status is already paid"
	ErrDevInvoiceVoided            = "invoice status is void"
	ErrDevGatewayDeclined          = "payment gateway declined the charge"
	ErrDevGatewayTimeout           = "payment gateway call exceeded its deadline"
	ErrDevMissingRequestID         = "request id missing from context"

	ErrDevDBFailedToFindDocument    = "database failed to find document"
	ErrDevDBFailedToInsertDocument  = "database failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "database failed to update document"
	ErrDevDBFailedToIterateDocuments = "database failed to iterate documents"

	ErrDevRedisGetData       = "redis failed to get data"
	ErrDevRedisSetData       = "redis failed to set data"
	ErrDevRedisDeleteData    = "redis failed to delete data"
	ErrDevRedisSetNX         = "redis failed to set data with NX"
	ErrDevRedisUnlock        = "redis failed to release lock"
	ErrDevCannotMarshalJSON  = "failed to marshal value to JSON"

	ErrDevRabbitMQPublish = "rabbitmq failed to publish message to queue %s"

	ErrDevPaymentOutcomeNotPersisted = "gateway charge outcome could not be persisted; charge may be unrecorded"
)
