package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidName     = errors.New("name is required")
)

// Product is a catalog entry. Price is in minor units (cents).
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	Price       int64     `json:"price" bson:"price"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// New validates the fields and returns a catalog entry with a fresh ID.
func New(name, category, description, imageURL string, price int64, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Price:       price,
		ImageURL:    imageURL,
		Description: description,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks the fields of an edited product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
