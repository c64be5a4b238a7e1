package config

type InternalConfig struct {
	App            App
	JWT            AppJWT
	PaymentGateway AppPaymentGateway
	Settlement     AppSettlement
	Reconciliation AppReconciliation
	RabbitMQ       AppRabbitMQ
}

type App struct {
	Env                      string
	Port                     string
	Version                  string
	EndpointPrefix           string
	MaxRequests              int
	ShutdownTimeoutInSeconds int
}

type AppJWT struct {
	Secret                        string
	GuardValidateTimeoutInSeconds int
}

type AppPaymentGateway struct {
	BaseUrl                 string
	ApiKey                  string
	RequestTimeoutInSeconds int
}

type AppSettlement struct {
	// MarkPaidMaxAttempts bounds the CAS retry loop before the orchestrator
	// falls back to a reconciliation entry.
	MarkPaidMaxAttempts       int
	MarkPaidBackoffInMillis   int
	ExecutionTimeoutInSeconds int
	OutcomeCacheTTLInMinutes  int
}

type AppReconciliation struct {
	SweepIntervalInSeconds int
	// EscalationCeiling is the number of failed repair attempts after which an
	// entry becomes escalated and is never retried automatically.
	EscalationCeiling int
	SweepBatchSize    int
	LockTTLInSeconds  int
}

type AppRabbitMQ struct {
	NotificationQueue string
	AnalyticsQueue    string
}
