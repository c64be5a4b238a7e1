package main

import (
	"context"
	"log"
	"settlement-service/internal/app/config"
	"settlement-service/internal/app/drivers/database"
	"settlement-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Creates the indexes the service depends on. The unique index on
// idempotency_token is load-bearing: without it concurrent settlements could
// insert two attempts for one token.
func main() {
	driverConfig := config.NewDriverConfig()
	client := database.NewMongoDB(driverConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	billing := client.Database(driverConfig.MongoDB.BillingDbName)
	payments := client.Database(driverConfig.MongoDB.PaymentDbName)

	createIndexes(ctx, billing.Collection(constvars.MongoCollectionInvoices), []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	createIndexes(ctx, payments.Collection(constvars.MongoCollectionPaymentAttempts), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "idempotency_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}}},
	})

	createIndexes(ctx, payments.Collection(constvars.MongoCollectionReconciliationEntries), []mongo.IndexModel{
		{Keys: bson.D{{Key: "payment_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	})

	log.Println("All indexes created")
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	names, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Fatalf("Error creating indexes on %s: %v", collection.Name(), err)
	}
	log.Printf("Created indexes on %s: %v", collection.Name(), names)
}
