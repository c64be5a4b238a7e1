package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Logger   Logger
	}
	// MongoDB carries connection settings plus the two database names. The
	// invoice ledger and the payment ledger are independently owned stores:
	// nothing in the code path joins across them or wraps them in one
	// transaction.
	MongoDB struct {
		Port          string
		Host          string
		Username      string
		Password      string
		BillingDbName string
		PaymentDbName string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
