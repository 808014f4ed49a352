// Package reconciler scans for payment intents that were confirmed by the
// gateway but never got an order written. Money may have been captured for
// these; they are reported for manual follow-up, never auto-refunded.
package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/payment"
	"github.com/example/storefront/internal/store"
)

type Reconciler struct {
	intents store.IntentStore
	minAge  time.Duration
}

// New builds a reconciler. minAge keeps in-flight checkouts out of the scan;
// an intent is only orphaned once it has sat confirmed longer than any
// checkout request could still be running.
func New(intents store.IntentStore, minAge time.Duration) *Reconciler {
	if minAge <= 0 {
		minAge = 10 * time.Minute
	}
	return &Reconciler{intents: intents, minAge: minAge}
}

// Run performs one scan and returns the orphaned intents it found.
func (r *Reconciler) Run(ctx context.Context) ([]payment.Intent, error) {
	cutoff := time.Now().Add(-r.minAge)
	orphaned, err := r.intents.ListOrphaned(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	for _, in := range orphaned {
		log.Printf("[Reconciler] UNRECONCILED intent %s: user %s, amount %d, gateway ref %s, confirmed at %s",
			in.ID, in.UserID, in.Amount, in.CheckoutRequestID, in.UpdatedAt.Format(time.RFC3339))
	}
	if len(orphaned) == 0 {
		log.Printf("[Reconciler] Scan clean, no orphaned intents")
	} else {
		log.Printf("[Reconciler] Scan found %d orphaned intent(s) needing manual follow-up", len(orphaned))
	}
	return orphaned, nil
}
