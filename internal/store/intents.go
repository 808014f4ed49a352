package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/payment"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrIntentNotFound = errors.New("payment intent not found")

type mongoIntentStore struct {
	collection *mongo.Collection
}

// NewMongoIntentStore returns the payment-intents repository.
func NewMongoIntentStore(db *mongo.Database) IntentStore {
	return &mongoIntentStore{collection: db.Collection("payment_intents")}
}

func (m *mongoIntentStore) Create(ctx context.Context, in *payment.Intent) error {
	if _, err := m.collection.InsertOne(ctx, in); err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}
	return nil
}

func (m *mongoIntentStore) GetByID(ctx context.Context, id string) (*payment.Intent, error) {
	var in payment.Intent
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&in)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	return &in, nil
}

func (m *mongoIntentStore) MarkConfirmed(ctx context.Context, id, checkoutRequestID string) error {
	return m.setStatus(ctx, id, bson.M{
		"status":              payment.IntentConfirmed,
		"checkout_request_id": checkoutRequestID,
	})
}

func (m *mongoIntentStore) MarkFailed(ctx context.Context, id, reason string) error {
	return m.setStatus(ctx, id, bson.M{
		"status":         payment.IntentFailed,
		"failure_reason": reason,
	})
}

func (m *mongoIntentStore) MarkCompleted(ctx context.Context, id, orderID string) error {
	return m.setStatus(ctx, id, bson.M{
		"status":   payment.IntentCompleted,
		"order_id": orderID,
	})
}

func (m *mongoIntentStore) setStatus(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update payment intent: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrIntentNotFound
	}
	return nil
}

func (m *mongoIntentStore) ListOrphaned(ctx context.Context, cutoff time.Time) ([]payment.Intent, error) {
	filter := bson.M{
		"status":     payment.IntentConfirmed,
		"order_id":   bson.M{"$in": []any{nil, ""}},
		"updated_at": bson.M{"$lt": cutoff},
	}

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned intents: %w", err)
	}
	defer cursor.Close(ctx)

	var intents []payment.Intent
	if err := cursor.All(ctx, &intents); err != nil {
		return nil, fmt.Errorf("failed to decode intents: %w", err)
	}
	return intents, nil
}
