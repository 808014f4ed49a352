package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore returns the users repository.
func NewMongoUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{collection: db.Collection("users")}
}

func (m *mongoUserStore) Create(ctx context.Context, u *user.User) error {
	if _, err := m.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email %s", ErrDuplicateKey, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (m *mongoUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (m *mongoUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (m *mongoUserStore) List(ctx context.Context) ([]user.User, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []user.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (m *mongoUserStore) UpdateRole(ctx context.Context, id, role string) error {
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (m *mongoUserStore) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (m *mongoUserStore) Count(ctx context.Context) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
