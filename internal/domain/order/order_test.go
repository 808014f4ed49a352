package order

import (
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedLines() []cart.PricedLine {
	return []cart.PricedLine{
		{ProductID: "p1", Name: "Matcha Set", UnitPrice: 1000, Quantity: 2, Subtotal: 2000},
		{ProductID: "p2", Name: "Teapot", UnitPrice: 2550, Quantity: 1, Subtotal: 2550},
	}
}

func shipping() ShippingInfo {
	return ShippingInfo{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Address:    "1 Main St",
		City:       "Nairobi",
		PostalCode: "00100",
		Country:    "Kenya",
	}
}

// ============================================
// New Tests
// ============================================

func TestNew_Success(t *testing.T) {
	o, err := New("user-1", pricedLines(), payment.NewCard(), "", shipping())

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(4550), o.TotalPrice)
	assert.Empty(t, o.PaymentReferenceID)
	assert.Equal(t, payment.MethodCard, o.PaymentMethod.Kind)
	require.Len(t, o.Items, 2)
	assert.Equal(t, Line{ProductID: "p1", Name: "Matcha Set", Quantity: 2, UnitPrice: 1000, Subtotal: 2000}, o.Items[0])
	assert.False(t, o.CreatedAt.IsZero())
}

func TestNew_EmptyCart(t *testing.T) {
	o, err := New("user-1", nil, payment.NewCard(), "", shipping())

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, o)
}

func TestNew_TotalEqualsSumOfSubtotals(t *testing.T) {
	o, err := New("user-1", pricedLines(), payment.NewMobile("254712345678"), "ws_CO_123", shipping())

	require.NoError(t, err)
	var sum int64
	for _, item := range o.Items {
		sum += item.Subtotal
	}
	assert.Equal(t, sum, o.TotalPrice)
	assert.Equal(t, "ws_CO_123", o.PaymentReferenceID)
}

// ============================================
// Status FSM Tests
// ============================================

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		status  Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"shipped", StatusShipped, false},
		{"delivered", StatusDelivered, false},
		{"canceled", StatusCanceled, false},
		{"completed", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got)
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to shipped", StatusPending, StatusShipped, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to canceled", StatusShipped, StatusCanceled, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"canceled is terminal", StatusCanceled, StatusShipped, false},
		{"same status is idempotent", StatusShipped, StatusShipped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to))
		})
	}
}

func TestTransitionError(t *testing.T) {
	o := &Order{Status: StatusDelivered}

	err := o.TransitionError(StatusPending)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "delivered")
	assert.Contains(t, err.Error(), "pending")
}
