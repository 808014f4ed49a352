// Package store is the MongoDB persistence layer. Each collection gets its
// own small repository behind an interface so services and tests depend on
// the contract, not the driver.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
)

// ErrDuplicateKey reports a unique-index violation.
var ErrDuplicateKey = errors.New("duplicate key")

// IsDuplicateKey reports whether err came from a unique-index violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

type ProductStore interface {
	ListAll(ctx context.Context) ([]product.Product, error)
	Search(ctx context.Context, name string) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Create(ctx context.Context, p *product.Product) error
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	GetByUser(ctx context.Context, userID string) ([]order.Order, error)
	GetAll(ctx context.Context) ([]order.Order, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status) error
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type IntentStore interface {
	Create(ctx context.Context, in *payment.Intent) error
	GetByID(ctx context.Context, id string) (*payment.Intent, error)
	MarkConfirmed(ctx context.Context, id, checkoutRequestID string) error
	MarkFailed(ctx context.Context, id, reason string) error
	MarkCompleted(ctx context.Context, id, orderID string) error
	// ListOrphaned returns intents confirmed before the cutoff that never
	// got an order attached: money may be captured with no order record.
	ListOrphaned(ctx context.Context, cutoff time.Time) ([]payment.Intent, error)
}

// Message is a contact-form submission.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type MessageStore interface {
	Add(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]Message, error)
}
