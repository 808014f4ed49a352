package cart

import (
	"testing"

	"github.com/example/storefront/internal/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() []product.Product {
	return []product.Product{
		{ID: "p1", Name: "Matcha Set", Price: 1000, ImageURL: "/img/p1.png"},
		{ID: "p2", Name: "Teapot", Price: 2550},
		{ID: "p3", Name: "Cups", Price: 400},
	}
}

// ============================================
// Add Tests
// ============================================

func TestAdd_NewProduct(t *testing.T) {
	c := Add(nil, "p1")

	require.Len(t, c, 1)
	assert.Equal(t, Line{ProductID: "p1", Quantity: 1}, c[0])
}

func TestAdd_DuplicateIsNoOp(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 3}}

	got := Add(c, "p1")

	// A repeat add leaves the cart unchanged, including the quantity.
	assert.Equal(t, c, got)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 1}}

	_ = Add(c, "p2")

	assert.Len(t, c, 1)
}

// ============================================
// SetQuantity Tests
// ============================================

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		cart     Cart
		product  string
		quantity int
		expected Cart
	}{
		{
			name:     "overwrite existing",
			cart:     Cart{{ProductID: "p1", Quantity: 1}},
			product:  "p1",
			quantity: 5,
			expected: Cart{{ProductID: "p1", Quantity: 5}},
		},
		{
			name:     "create when absent",
			cart:     Cart{{ProductID: "p1", Quantity: 1}},
			product:  "p2",
			quantity: 2,
			expected: Cart{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 2}},
		},
		{
			name:     "zero removes",
			cart:     Cart{{ProductID: "p1", Quantity: 4}},
			product:  "p1",
			quantity: 0,
			expected: Cart{},
		},
		{
			name:     "negative removes",
			cart:     Cart{{ProductID: "p1", Quantity: 4}},
			product:  "p1",
			quantity: -2,
			expected: Cart{},
		},
		{
			name:     "zero on absent product is a no-op",
			cart:     Cart{{ProductID: "p1", Quantity: 4}},
			product:  "p9",
			quantity: 0,
			expected: Cart{{ProductID: "p1", Quantity: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetQuantity(tt.cart, tt.product, tt.quantity)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSetQuantity_ZeroIsIdempotent(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 2}}

	once := SetQuantity(c, "p1", 0)
	twice := SetQuantity(once, "p1", 0)

	assert.Equal(t, once, twice)
	assert.Empty(t, twice)
}

// ============================================
// Remove Tests
// ============================================

func TestRemove_Present(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 2}}

	got := Remove(c, "p1")

	assert.Equal(t, Cart{{ProductID: "p2", Quantity: 2}}, got)
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 1}}

	got := Remove(c, "p9")

	assert.Equal(t, c, got)
}

// ============================================
// Price / Total Tests
// ============================================

func TestPrice_JoinsAndComputesSubtotals(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 2}, {ProductID: "p3", Quantity: 1}}

	priced := Price(c, snapshot())

	require.Len(t, priced, 2)
	assert.Equal(t, PricedLine{
		ProductID: "p1",
		Name:      "Matcha Set",
		ImageURL:  "/img/p1.png",
		UnitPrice: 1000,
		Quantity:  2,
		Subtotal:  2000,
	}, priced[0])
	assert.Equal(t, int64(400), priced[1].Subtotal)
}

func TestPrice_DropsUnresolvedLines(t *testing.T) {
	c := Cart{{ProductID: "gone", Quantity: 2}, {ProductID: "p2", Quantity: 1}}

	priced := Price(c, snapshot())

	require.Len(t, priced, 1)
	assert.Equal(t, "p2", priced[0].ProductID)
}

func TestPrice_EmptyCart(t *testing.T) {
	assert.Empty(t, Price(nil, snapshot()))
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		priced   []PricedLine
		expected int64
	}{
		{"empty list", nil, 0},
		{"single line", []PricedLine{{Subtotal: 2000}}, 2000},
		{"multiple lines", []PricedLine{{Subtotal: 2000}, {Subtotal: 550}}, 2550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Total(tt.priced))
		})
	}
}

// Total over a priced cart always equals the sum of unitPrice*quantity for
// resolvable lines.
func TestTotal_MatchesUnitPriceTimesQuantity(t *testing.T) {
	c := Cart{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 3}, {ProductID: "missing", Quantity: 7}}

	priced := Price(c, snapshot())

	var want int64
	for _, line := range priced {
		want += line.UnitPrice * int64(line.Quantity)
	}
	assert.Equal(t, want, Total(priced))
	assert.Equal(t, int64(2*1000+3*2550), Total(priced))
}
