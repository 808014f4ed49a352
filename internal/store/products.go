package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/product"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProductStore struct {
	collection *mongo.Collection
}

// NewMongoProductStore returns the products repository.
func NewMongoProductStore(db *mongo.Database) ProductStore {
	return &mongoProductStore{collection: db.Collection("products")}
}

func (m *mongoProductStore) ListAll(ctx context.Context) ([]product.Product, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []product.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *mongoProductStore) Search(ctx context.Context, name string) ([]product.Product, error) {
	filter := bson.M{"name": bson.M{
		"$regex": primitive.Regex{Pattern: regexEscape(name), Options: "i"},
	}}

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []product.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *mongoProductStore) GetByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (m *mongoProductStore) Create(ctx context.Context, p *product.Product) error {
	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (m *mongoProductStore) Update(ctx context.Context, p *product.Product) error {
	p.UpdatedAt = time.Now()
	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (m *mongoProductStore) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (m *mongoProductStore) Count(ctx context.Context) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// regexEscape quotes regex metacharacters so a search term is matched as a
// plain substring.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, m := range meta {
			if r == m {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
