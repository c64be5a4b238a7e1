package config

import (
	"settlement-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:          utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:          utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username:      utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password:      utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			BillingDbName: utils.GetEnvString("MONGODB_BILLING_DB_NAME", "billing"),
			PaymentDbName: utils.GetEnvString("MONGODB_PAYMENT_DB_NAME", "payments"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUESTS", 100),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		JWT: AppJWT{
			Secret:                        utils.GetEnvString("JWT_SECRET", "defaultSecret"),
			GuardValidateTimeoutInSeconds: utils.GetEnvInt("JWT_GUARD_VALIDATE_TIMEOUT_IN_SECONDS", 2),
		},
		PaymentGateway: AppPaymentGateway{
			BaseUrl:                 utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "http://localhost:9090"),
			ApiKey:                  utils.GetEnvString("PAYMENT_GATEWAY_API_KEY", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 5),
		},
		Settlement: AppSettlement{
			MarkPaidMaxAttempts:       utils.GetEnvInt("SETTLEMENT_MARK_PAID_MAX_ATTEMPTS", 3),
			MarkPaidBackoffInMillis:   utils.GetEnvInt("SETTLEMENT_MARK_PAID_BACKOFF_IN_MILLIS", 25),
			ExecutionTimeoutInSeconds: utils.GetEnvInt("SETTLEMENT_EXECUTION_TIMEOUT_IN_SECONDS", 30),
			OutcomeCacheTTLInMinutes:  utils.GetEnvInt("SETTLEMENT_OUTCOME_CACHE_TTL_IN_MINUTES", 60),
		},
		Reconciliation: AppReconciliation{
			SweepIntervalInSeconds: utils.GetEnvInt("RECONCILIATION_SWEEP_INTERVAL_IN_SECONDS", 60),
			EscalationCeiling:      utils.GetEnvInt("RECONCILIATION_ESCALATION_CEILING", 5),
			SweepBatchSize:         utils.GetEnvInt("RECONCILIATION_SWEEP_BATCH_SIZE", 100),
			LockTTLInSeconds:       utils.GetEnvInt("RECONCILIATION_LOCK_TTL_IN_SECONDS", 55),
		},
		RabbitMQ: AppRabbitMQ{
			NotificationQueue: utils.GetEnvString("RABBITMQ_NOTIFICATION_QUEUE", "notification_events"),
			AnalyticsQueue:    utils.GetEnvString("RABBITMQ_ANALYTICS_QUEUE", "analytics_events"),
		},
	}
}
