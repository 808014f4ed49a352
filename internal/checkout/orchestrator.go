// Package checkout turns a validated form and a session cart into a
// persisted order. Within one attempt the steps run strictly in order:
// validation, payment, persistence; the caller clears the cart only after
// persistence is acknowledged.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/payment/mpesa"
	"github.com/example/storefront/internal/store"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPersistFailed = errors.New("could not save your order, please try again")
)

// PaymentError is a user-surfaceable payment failure. No order exists when
// it is returned.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string { return e.Reason }

// Gateway issues one push-payment request per checkout submission.
type Gateway interface {
	STKPush(ctx context.Context, req mpesa.PushRequest) (*mpesa.PushResponse, error)
}

// Publisher emits the order-placed event after persistence. Publishing is
// best effort; a failed publish never fails the checkout.
type Publisher interface {
	Publish(ctx context.Context, key string, env *event.Envelope) error
}

type Orchestrator struct {
	orders    store.OrderStore
	intents   store.IntentStore
	gateway   Gateway
	publisher Publisher
}

func NewOrchestrator(orders store.OrderStore, intents store.IntentStore, gateway Gateway, publisher Publisher) *Orchestrator {
	return &Orchestrator{
		orders:    orders,
		intents:   intents,
		gateway:   gateway,
		publisher: publisher,
	}
}

// Submit runs one checkout attempt over an already-priced cart. The priced
// lines must come from a fresh pricing pass against the live catalog, never
// from the session's advisory cache.
func (o *Orchestrator) Submit(ctx context.Context, userID string, priced []cart.PricedLine, in *ValidInput) (*order.Order, error) {
	if len(priced) == 0 {
		return nil, ErrEmptyCart
	}
	total := cart.Total(priced)

	var paymentRef string
	var intent *payment.Intent
	if in.Method.Kind == payment.MethodMobile {
		var err error
		intent, paymentRef, err = o.collectMobilePayment(ctx, userID, in.Method.Phone, total)
		if err != nil {
			return nil, err
		}
	}

	ord, err := order.New(userID, priced, in.Method, paymentRef, in.Shipping)
	if err != nil {
		return nil, err
	}

	if err := o.orders.Create(ctx, ord); err != nil {
		// Money may be captured with no order; the intent stays confirmed
		// and the reconciler will report it.
		if intent != nil {
			log.Printf("[Checkout] UNRECONCILED: payment intent %s confirmed (ref %s) but order write failed: %v",
				intent.ID, paymentRef, err)
		} else {
			log.Printf("[Checkout] Order write failed for user %s: %v", userID, err)
		}
		return nil, ErrPersistFailed
	}

	if intent != nil {
		if err := o.intents.MarkCompleted(ctx, intent.ID, ord.ID); err != nil {
			log.Printf("[Checkout] Failed to complete intent %s for order %s: %v", intent.ID, ord.ID, err)
		}
	}

	o.publishPlaced(ctx, ord)
	return ord, nil
}

// collectMobilePayment persists an intent, calls the gateway, and records
// the outcome. On success it returns the confirmed intent and the gateway's
// correlation id.
func (o *Orchestrator) collectMobilePayment(ctx context.Context, userID, phone string, amount int64) (*payment.Intent, string, error) {
	intent := payment.NewIntent(userID, phone, amount)
	if err := o.intents.Create(ctx, intent); err != nil {
		log.Printf("[Checkout] Failed to record payment intent for user %s: %v", userID, err)
		return nil, "", ErrPersistFailed
	}

	resp, err := o.gateway.STKPush(ctx, mpesa.PushRequest{Phone: phone, Amount: amount})
	if err != nil {
		o.failIntent(ctx, intent.ID, err.Error())
		var declined *mpesa.DeclinedError
		if errors.As(err, &declined) {
			return nil, "", &PaymentError{Reason: declined.Reason}
		}
		return nil, "", &PaymentError{Reason: "payment service is unavailable, please try again later"}
	}
	if resp.CheckoutRequestID == "" {
		o.failIntent(ctx, intent.ID, "gateway returned no correlation id")
		return nil, "", &PaymentError{Reason: "failed to initiate payment"}
	}

	if err := o.intents.MarkConfirmed(ctx, intent.ID, resp.CheckoutRequestID); err != nil {
		log.Printf("[Checkout] Failed to confirm intent %s: %v", intent.ID, err)
	}
	return intent, resp.CheckoutRequestID, nil
}

func (o *Orchestrator) failIntent(ctx context.Context, intentID, reason string) {
	if err := o.intents.MarkFailed(ctx, intentID, reason); err != nil {
		log.Printf("[Checkout] Failed to mark intent %s failed: %v", intentID, err)
	}
}

func (o *Orchestrator) publishPlaced(ctx context.Context, ord *order.Order) {
	env, err := event.Wrap(order.EventOrderPlaced, order.NewPlaced(ord))
	if err != nil {
		log.Printf("[Checkout] Failed to build OrderPlaced event for %s: %v", ord.ID, err)
		return
	}
	if err := o.publisher.Publish(ctx, ord.ID, env); err != nil {
		log.Printf("[Checkout] Failed to publish OrderPlaced for %s: %v", ord.ID, err)
	}
}

// UserMessage maps a checkout error to the single message shown on the form.
func UserMessage(err error) string {
	var vErr *ValidationError
	var pErr *PaymentError
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, ErrEmptyCart):
		return "your cart is empty"
	case errors.As(err, &pErr):
		return fmt.Sprintf("payment failed: %s", pErr.Reason)
	case errors.Is(err, ErrPersistFailed):
		return ErrPersistFailed.Error()
	default:
		return "something went wrong, please try again"
	}
}
