package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// validTransitions defines allowed state transitions. Delivered and canceled
// are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCanceled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCanceled:  {},
}

// ParseStatus maps a submitted status string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusShipped, StatusDelivered, StatusCanceled:
		return Status(s), nil
	default:
		return "", ErrUnknownStatus
	}
}

// CanTransitionTo reports whether the order may move to the target status.
// A same-status transition is allowed so repeated updates stay idempotent.
func (o *Order) CanTransitionTo(target Status) bool {
	if o.Status == target {
		return true
	}
	for _, s := range validTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionError describes why a transition was rejected.
func (o *Order) TransitionError(target Status) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, o.Status, target)
}

// Line is a frozen copy of catalog data at order time, independent of later
// catalog edits.
type Line struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	UnitPrice int64  `json:"unit_price" bson:"unit_price"`
	Subtotal  int64  `json:"subtotal" bson:"subtotal"`
	ImageURL  string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

type ShippingInfo struct {
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	Address     string `json:"address" bson:"address"`
	City        string `json:"city" bson:"city"`
	PostalCode  string `json:"postal_code" bson:"postal_code"`
	Country     string `json:"country" bson:"country"`
	PhoneNumber string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
}

// Order is the immutable snapshot written at checkout. TotalPrice is computed
// once from the priced cart and never recomputed from live catalog data.
type Order struct {
	ID                 string         `json:"id" bson:"_id"`
	UserID             string         `json:"user_id" bson:"user_id"`
	Items              []Line         `json:"items" bson:"items"`
	TotalPrice         int64          `json:"total_price" bson:"total_price"`
	Status             Status         `json:"status" bson:"status"`
	PaymentMethod      payment.Method `json:"payment_method" bson:"payment_method"`
	PaymentReferenceID string         `json:"payment_reference_id,omitempty" bson:"payment_reference_id,omitempty"`
	ShippingAddress    ShippingInfo   `json:"shipping_address" bson:"shipping_address"`
	CreatedAt          time.Time      `json:"created_at" bson:"created_at"`
}

// New assembles an order from a non-empty priced cart. The initial status is
// always pending.
func New(userID string, priced []cart.PricedLine, method payment.Method, paymentRef string, shipping ShippingInfo) (*Order, error) {
	if len(priced) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]Line, 0, len(priced))
	var total int64
	for _, line := range priced {
		items = append(items, Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
			ImageURL:  line.ImageURL,
		})
		total += line.Subtotal
	}

	return &Order{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Items:              items,
		TotalPrice:         total,
		Status:             StatusPending,
		PaymentMethod:      method,
		PaymentReferenceID: paymentRef,
		ShippingAddress:    shipping,
		CreatedAt:          time.Now(),
	}, nil
}
