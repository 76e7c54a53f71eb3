package booking

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingMongoRepository struct {
	collection *mongo.Collection
}

func NewBookingMongoRepository(client *mongo.Client, dbName string) contracts.BookingAuditRepository {
	return &bookingMongoRepository{
		collection: client.Database(dbName).Collection(constvars.BookingAuditCollection),
	}
}

func (r *bookingMongoRepository) RecordAttempt(ctx context.Context, attempt *models.BookingAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	attempt.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, attempt)
	if err != nil {
		return exceptions.ErrDBInsertDocument(err)
	}
	return nil
}
