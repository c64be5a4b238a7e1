package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/delivery/http/controllers"
	"settlement-service/internal/app/delivery/http/middlewares"
	"settlement-service/internal/app/delivery/http/routers"
	"settlement-service/internal/app/drivers/database"
	"settlement-service/internal/app/drivers/logger"
	"settlement-service/internal/app/drivers/messaging"
	"settlement-service/internal/app/services/core/invoices"
	"settlement-service/internal/app/services/core/payments"
	"settlement-service/internal/app/services/core/reconciliation"
	"settlement-service/internal/app/services/core/settlements"
	"settlement-service/internal/app/services/shared/authguard"
	"settlement-service/internal/app/services/shared/events"
	"settlement-service/internal/app/services/shared/gateway"
	"settlement-service/internal/app/services/shared/locker"
	sharedredis "settlement-service/internal/app/services/shared/redis"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	defer rabbitConn.Close()

	chiRouter := chi.NewRouter()

	worker := bootstrapTheApp(bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		RedisClient:    redisClient,
		RabbitConn:     rabbitConn,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		log.Info("server starting", zap.String("addr", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("waiting for in-flight requests to finish")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}

type bootstrap struct {
	Router         *chi.Mux
	MongoClient    *mongo.Client
	RedisClient    *redis.Client
	RabbitConn     *amqp091.Connection
	Logger         *zap.Logger
	DriverConfig   *config.DriverConfig
	InternalConfig *config.InternalConfig
}

func bootstrapTheApp(b bootstrap) *reconciliation.Worker {
	// Shared services
	redisRepository := sharedredis.NewRedisRepository(b.RedisClient)
	lockerService := locker.NewLockService(redisRepository, b.Logger)
	authGuard := authguard.NewJWTAuthGuard(b.InternalConfig, b.Logger)
	paymentGateway := gateway.NewHTTPGateway(b.InternalConfig, b.Logger)

	eventPublisher, err := events.NewRabbitPublisher(b.RabbitConn, b.InternalConfig, b.Logger)
	if err != nil {
		b.Logger.Fatal("failed to initialize event publisher", zap.Error(err))
	}

	// Invoice ledger
	invoiceRepository := invoices.NewInvoiceMongoRepository(b.MongoClient, b.DriverConfig.MongoDB.BillingDbName)
	invoiceUsecase := invoices.NewInvoiceUsecase(invoiceRepository, b.Logger)
	invoiceController := controllers.NewInvoiceController(b.Logger, invoiceUsecase)

	// Payment ledger and executor
	paymentRepository := payments.NewPaymentMongoRepository(b.MongoClient, b.DriverConfig.MongoDB.PaymentDbName)
	paymentExecutor := payments.NewPaymentExecutor(paymentRepository, paymentGateway, redisRepository, b.InternalConfig, b.Logger)
	paymentUsecase := payments.NewPaymentUsecase(paymentRepository, invoiceRepository, b.Logger)
	paymentController := controllers.NewPaymentController(b.Logger, paymentUsecase)

	// Reconciliation
	reconciliationRepository := reconciliation.NewReconciliationMongoRepository(b.MongoClient, b.DriverConfig.MongoDB.PaymentDbName)
	reconciliationWorker := reconciliation.NewWorker(
		reconciliationRepository,
		invoiceRepository,
		paymentRepository,
		lockerService,
		b.InternalConfig,
		b.Logger,
	)

	// Settlement orchestration
	settlementUsecase := settlements.NewSettlementUsecase(
		invoiceRepository,
		paymentExecutor,
		reconciliationRepository,
		eventPublisher,
		b.InternalConfig,
		b.Logger,
	)
	settlementController := controllers.NewSettlementController(b.Logger, settlementUsecase)

	healthController := controllers.NewHealthController(b.Logger, b.MongoClient, b.RedisClient)

	m := &middlewares.Middlewares{
		Log:            b.Logger,
		AuthGuard:      authGuard,
		InternalConfig: b.InternalConfig,
	}

	routers.SetupRoutes(
		b.Router,
		b.InternalConfig,
		m,
		healthController,
		settlementController,
		invoiceController,
		paymentController,
	)

	return reconciliationWorker
}
