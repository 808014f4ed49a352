// Package cart implements the session-backed shopping cart as pure
// transformations over a cart value. Persisting the returned cart back into
// the session is the caller's responsibility.
package cart

import (
	"github.com/example/storefront/internal/domain/product"
)

// Line is a single cart entry, unique by ProductID.
type Line struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart is the ordered list of lines held in the session.
type Cart []Line

// PricedLine is a cart line joined against a catalog snapshot. It is derived
// on every read and never persisted on its own.
type PricedLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// Add appends {productID, 1} unless the product is already in the cart, in
// which case the cart is returned unchanged. A repeat "add to cart" being a
// no-op rather than an increment is deliberate; quantity changes go through
// SetQuantity.
func Add(c Cart, productID string) Cart {
	for _, line := range c {
		if line.ProductID == productID {
			return c
		}
	}
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	return append(out, Line{ProductID: productID, Quantity: 1})
}

// SetQuantity upserts the line for productID. A quantity of zero or less
// removes the line.
func SetQuantity(c Cart, productID string, quantity int) Cart {
	if quantity <= 0 {
		return Remove(c, productID)
	}

	out := make(Cart, 0, len(c)+1)
	found := false
	for _, line := range c {
		if line.ProductID == productID {
			line.Quantity = quantity
			found = true
		}
		out = append(out, line)
	}
	if !found {
		out = append(out, Line{ProductID: productID, Quantity: quantity})
	}
	return out
}

// Remove drops the line for productID if present.
func Remove(c Cart, productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, line := range c {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

// Price joins the cart against a catalog snapshot. Lines whose product no
// longer resolves are silently dropped.
func Price(c Cart, snapshot []product.Product) []PricedLine {
	byID := make(map[string]product.Product, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	priced := make([]PricedLine, 0, len(c))
	for _, line := range c {
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		priced = append(priced, PricedLine{
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			UnitPrice: p.Price,
			Quantity:  line.Quantity,
			Subtotal:  p.Price * int64(line.Quantity),
		})
	}
	return priced
}

// Total sums the subtotals of the priced lines. Zero for an empty list.
func Total(priced []PricedLine) int64 {
	var total int64
	for _, line := range priced {
		total += line.Subtotal
	}
	return total
}
