package workspace

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no workspace matches the given key.
var ErrNotFound = errors.New("workspace not found")

// PlanChange is the set of fields a billing transition may assign. Applying
// the same change twice leaves the record in the same state: every field is a
// plain assignment keyed by identifier, never an increment.
type PlanChange struct {
	Plan         string
	UsageLimit   int64
	LinksLimit   int64
	DomainsLimit int64
	TagsLimit    int64
	UsersLimit   int64

	// StripeID and BillingCycleStart are assigned only on first purchase;
	// nil leaves the stored value untouched.
	StripeID          *string
	BillingCycleStart *int
}

// Store is the record-store contract the billing reconciler depends on.
// Every update returns the full post-update record, including the nested
// user and domain collections the side-effect dispatcher needs.
type Store interface {
	// Get retrieves a workspace by its internal identifier.
	Get(ctx context.Context, id string) (*Workspace, error)

	// GetByStripeID retrieves a workspace by its Stripe customer identifier.
	GetByStripeID(ctx context.Context, stripeID string) (*Workspace, error)

	// Update applies the change to the workspace with the given internal
	// identifier and returns the updated record.
	Update(ctx context.Context, id string, change PlanChange) (*Workspace, error)

	// UpdateByStripeID applies the change to the workspace correlated by
	// Stripe customer identifier and returns the updated record.
	UpdateByStripeID(ctx context.Context, stripeID string, change PlanChange) (*Workspace, error)
}

// Apply assigns the change to the workspace in place and stamps UpdatedAt.
// Store implementations share this so in-memory fakes and SQL row mapping
// agree on the assignment semantics.
func (w *Workspace) Apply(change PlanChange, now time.Time) {
	w.Plan = change.Plan
	w.UsageLimit = change.UsageLimit
	w.LinksLimit = change.LinksLimit
	w.DomainsLimit = change.DomainsLimit
	w.TagsLimit = change.TagsLimit
	w.UsersLimit = change.UsersLimit
	if change.StripeID != nil {
		w.StripeID = change.StripeID
	}
	if change.BillingCycleStart != nil {
		w.BillingCycleStart = *change.BillingCycleStart
	}
	w.UpdatedAt = now
}
