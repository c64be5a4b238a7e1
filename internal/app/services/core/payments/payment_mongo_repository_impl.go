package payments

import (
	"context"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type paymentMongoRepository struct {
	Collection *mongo.Collection
}

func NewPaymentMongoRepository(client *mongo.Client, dbName string) contracts.PaymentRepository {
	return &paymentMongoRepository{
		Collection: client.Database(dbName).Collection(constvars.MongoCollectionPaymentAttempts),
	}
}

func (repo *paymentMongoRepository) FindByID(ctx context.Context, paymentID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := repo.Collection.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&attempt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &attempt, nil
}

func (repo *paymentMongoRepository) FindByToken(ctx context.Context, token string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := repo.Collection.FindOne(ctx, bson.M{"idempotency_token": token}).Decode(&attempt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &attempt, nil
}

func (repo *paymentMongoRepository) FindByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentAttempt, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"invoice_id": invoiceID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var attempts []models.PaymentAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return attempts, nil
}

// CreateAttempt relies on the unique index on idempotency_token: under a
// race, exactly one writer wins and the rest observe ErrDuplicateToken.
func (repo *paymentMongoRepository) CreateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	_, err := repo.Collection.InsertOne(ctx, attempt)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return contracts.ErrDuplicateToken
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *paymentMongoRepository) MarkOutcome(ctx context.Context, paymentID string, status models.PaymentStatus, gatewayRef, failureReason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}
	setFields := update["$set"].(bson.M)
	if gatewayRef != "" {
		setFields["gateway_ref"] = gatewayRef
	}
	if failureReason != "" {
		setFields["failure_reason"] = failureReason
	}

	_, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": paymentID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *paymentMongoRepository) FindCompletedSince(ctx context.Context, since time.Time, limit int) ([]models.PaymentAttempt, error) {
	filter := bson.M{
		"status":     models.PaymentCompleted,
		"updated_at": bson.M{"$gte": since},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := repo.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var attempts []models.PaymentAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return attempts, nil
}
