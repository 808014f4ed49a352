package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderStore struct {
	collection *mongo.Collection
}

// NewMongoOrderStore returns the orders repository.
func NewMongoOrderStore(db *mongo.Database) OrderStore {
	return &mongoOrderStore{collection: db.Collection("orders")}
}

func (m *mongoOrderStore) Create(ctx context.Context, o *order.Order) error {
	if _, err := m.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (m *mongoOrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (m *mongoOrderStore) GetByUser(ctx context.Context, userID string) ([]order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoOrderStore) GetAll(ctx context.Context) ([]order.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoOrderStore) ListSince(ctx context.Context, cutoff time.Time) ([]order.Order, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"created_at": bson.M{"$gte": cutoff}})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders since %s: %w", cutoff.Format(time.RFC3339), err)
	}
	defer cursor.Close(ctx)

	var orders []order.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus enforces the order status transition table. Setting the
// status an order already has is an idempotent no-op.
func (m *mongoOrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if o.Status == status {
		return nil
	}
	if !o.CanTransitionTo(status) {
		return o.TransitionError(status)
	}

	update := bson.M{"$set": bson.M{"status": status}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id, "status": o.Status}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		// Lost a race with a concurrent transition; re-read and report.
		current, err := m.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == status {
			return nil
		}
		return current.TransitionError(status)
	}
	return nil
}

func (m *mongoOrderStore) Count(ctx context.Context) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
