// Package payment holds the payment-method variants and the payment-intent
// record persisted around each push-payment attempt.
package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownMethod = errors.New("unknown payment method")

// MethodKind identifies how the customer pays.
type MethodKind string

const (
	MethodCard   MethodKind = "card"
	MethodMobile MethodKind = "mobile"
	MethodCrypto MethodKind = "crypto"
)

// Method is a tagged payment-method value. Phone is set only for the mobile
// variant and is always a normalized international number; callers construct
// a mobile method through NewMobile so an unverified phone never travels with
// the method.
type Method struct {
	Kind  MethodKind `json:"kind" bson:"kind"`
	Phone string     `json:"phone,omitempty" bson:"phone,omitempty"`
}

// ParseKind maps a submitted payment-method field to its variant.
func ParseKind(s string) (MethodKind, error) {
	switch MethodKind(s) {
	case MethodCard, MethodMobile, MethodCrypto:
		return MethodKind(s), nil
	default:
		return "", ErrUnknownMethod
	}
}

// NewCard returns the card variant. No external verification happens for
// card payments; orders carry no payment reference.
func NewCard() Method { return Method{Kind: MethodCard} }

// NewCrypto returns the crypto variant.
func NewCrypto() Method { return Method{Kind: MethodCrypto} }

// NewMobile returns the mobile-money variant for an already normalized phone.
func NewMobile(normalizedPhone string) Method {
	return Method{Kind: MethodMobile, Phone: normalizedPhone}
}

// IntentStatus tracks a push-payment attempt across the gateway call and the
// subsequent order write.
type IntentStatus string

const (
	IntentInitiated IntentStatus = "initiated"
	IntentConfirmed IntentStatus = "confirmed"
	IntentFailed    IntentStatus = "failed"
	IntentCompleted IntentStatus = "completed"
)

// Intent is written before the gateway is called and updated as the attempt
// progresses. An intent stuck in "confirmed" with no OrderID means money may
// have been captured without an order; the reconciler reports those.
type Intent struct {
	ID                string       `json:"id" bson:"_id"`
	UserID            string       `json:"user_id" bson:"user_id"`
	Amount            int64        `json:"amount" bson:"amount"`
	Phone             string       `json:"phone" bson:"phone"`
	Status            IntentStatus `json:"status" bson:"status"`
	CheckoutRequestID string       `json:"checkout_request_id,omitempty" bson:"checkout_request_id,omitempty"`
	OrderID           string       `json:"order_id,omitempty" bson:"order_id,omitempty"`
	FailureReason     string       `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" bson:"updated_at"`
}

// NewIntent records the start of a push-payment attempt.
func NewIntent(userID, phone string, amount int64) *Intent {
	now := time.Now()
	return &Intent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Phone:     phone,
		Status:    IntentInitiated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
