package order

import "time"

const EventOrderPlaced = "OrderPlaced"

// Placed is published after an order is persisted. It carries the full
// frozen snapshot so consumers never need to read back from the store.
type Placed struct {
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Items         []Line    `json:"items"`
	TotalPrice    int64     `json:"total_price"`
	PlacedAt      time.Time `json:"placed_at"`
}

// NewPlaced builds the event from a persisted order.
func NewPlaced(o *Order) Placed {
	return Placed{
		OrderID:       o.ID,
		UserID:        o.UserID,
		CustomerName:  o.ShippingAddress.Name,
		CustomerEmail: o.ShippingAddress.Email,
		Items:         o.Items,
		TotalPrice:    o.TotalPrice,
		PlacedAt:      o.CreatedAt,
	}
}
