package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageStore struct {
	collection *mongo.Collection
}

// NewMongoMessageStore returns the contact-messages repository.
func NewMongoMessageStore(db *mongo.Database) MessageStore {
	return &mongoMessageStore{collection: db.Collection("messages")}
}

func (m *mongoMessageStore) Add(ctx context.Context, msg *Message) error {
	if _, err := m.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

func (m *mongoMessageStore) List(ctx context.Context) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
