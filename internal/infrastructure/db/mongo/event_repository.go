package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

const collectionLoanEvents = "loan_events"

// EventRepository implements ports.LoanEventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.LoanEventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists a loan event to the loan_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.LoanEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"loan_id":     event.LoanID,
		"action":      string(event.Action),
		"status":      string(event.Status),
		"amount":      event.Amount,
		"occurred_at": event.OccurredAt.UTC(),
	}
	_, err := r.db.Collection(collectionLoanEvents).InsertOne(ctx, doc)
	return err
}
