package invoices

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

type invoiceMongoRepository struct {
	Collection *mongo.Collection
}

func NewInvoiceMongoRepository(client *mongo.Client, dbName string) contracts.InvoiceRepository {
	return &invoiceMongoRepository{
		Collection: client.Database(dbName).Collection(constvars.MongoCollectionInvoices),
	}
}

func (repo *invoiceMongoRepository) FindByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := repo.Collection.FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &invoice, nil
}

func (repo *invoiceMongoRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Invoice, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return invoices, nil
}

func (repo *invoiceMongoRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	now := time.Now().UTC()
	if invoice.ID == "" {
		invoice.ID = "INV-" + uuid.NewString()
	}
	invoice.Status = models.InvoicePending
	invoice.Version = 0
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	_, err := repo.Collection.InsertOne(ctx, invoice)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return invoice, nil
}

// TryMarkPaid is the single compare-and-swap write path for invoices. The
// filter pins both status and version, so the transition happens at most once
// for a given expectedVersion.
func (repo *invoiceMongoRepository) TryMarkPaid(ctx context.Context, invoiceID string, expectedVersion int64) (*models.MarkPaidResult, error) {
	filter := bson.M{
		"_id":     invoiceID,
		"status":  models.InvoicePending,
		"version": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.InvoicePaid,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Invoice
	err := repo.Collection.FindOneAndUpdate(ctx, filter, update, updateOptions).Decode(&updated)
	if err == nil {
		return &models.MarkPaidResult{Outcome: models.MarkPaidUpdated, Invoice: &updated}, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}

	// The CAS missed; re-read to classify why.
	current, err := repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	switch {
	case current == nil:
		return &models.MarkPaidResult{Outcome: models.MarkPaidNotFound}, nil
	case current.Status == models.InvoicePaid:
		return &models.MarkPaidResult{Outcome: models.MarkPaidAlreadyPaid, Invoice: current}, nil
	case current.Status == models.InvoiceVoid:
		return &models.MarkPaidResult{Outcome: models.MarkPaidNotPayable, Invoice: current}, nil
	default:
		return &models.MarkPaidResult{Outcome: models.MarkPaidVersionConflict, Invoice: current}, nil
	}
}
