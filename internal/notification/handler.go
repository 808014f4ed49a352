// Package notification consumes order events and sends customer email.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/event"
)

// Sender is the mail dependency; satisfied by email.Service.
type Sender interface {
	SendOrderConfirmation(e order.Placed) error
}

type Handler struct {
	sender Sender
}

func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

// HandleEvent processes one message from the orders topic. Events with no
// customer email are logged and skipped, not retried.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env event.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal envelope: %v", err)
		return err
	}

	if env.Type != order.EventOrderPlaced {
		return nil
	}

	var placed order.Placed
	if err := env.Decode(&placed); err != nil {
		log.Printf("[Notifier] Failed to decode OrderPlaced event: %v", err)
		return err
	}

	if placed.CustomerEmail == "" {
		log.Printf("[Notifier] Order %s has no customer email, skipping", placed.OrderID)
		return nil
	}

	log.Printf("[Notifier] Processing OrderPlaced for order %s, user %s", placed.OrderID, placed.UserID)
	if err := h.sender.SendOrderConfirmation(placed); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", placed.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", placed.CustomerEmail, placed.OrderID)
	return nil
}
