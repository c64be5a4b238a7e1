package reconciliation

import (
	"context"
	"settlement-service/internal/app/contracts"
	"settlement-service/internal/app/models"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/exceptions"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reconciliationMongoRepository struct {
	Collection *mongo.Collection
}

func NewReconciliationMongoRepository(client *mongo.Client, dbName string) contracts.ReconciliationRepository {
	return &reconciliationMongoRepository{
		Collection: client.Database(dbName).Collection(constvars.MongoCollectionReconciliationEntries),
	}
}

func (repo *reconciliationMongoRepository) CreateEntry(ctx context.Context, entry *models.ReconciliationEntry) (*models.ReconciliationEntry, error) {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = "REC-" + uuid.NewString()
	}
	entry.Status = models.ReconciliationOpen
	entry.Attempts = 0
	entry.CreatedAt = now

	_, err := repo.Collection.InsertOne(ctx, entry)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return entry, nil
}

func (repo *reconciliationMongoRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.ReconciliationEntry, error) {
	var entry models.ReconciliationEntry
	err := repo.Collection.FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &entry, nil
}

func (repo *reconciliationMongoRepository) FindOpen(ctx context.Context, limit int) ([]models.ReconciliationEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := repo.Collection.Find(ctx, bson.M{"status": models.ReconciliationOpen}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var entries []models.ReconciliationEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, nil
}

func (repo *reconciliationMongoRepository) UpdateSweepResult(ctx context.Context, entryID string, status models.ReconciliationStatus, attempts int, lastAttemptAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":          status,
			"attempts":        attempts,
			"last_attempt_at": lastAttemptAt,
		},
	}
	_, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": entryID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
