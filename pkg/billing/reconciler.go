package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrtin42/dub/pkg/workspace"
)

// Reconciler applies the state transition a classified event implies to the
// authoritative workspace record. Every transition is a deterministic field
// assignment keyed by identifier, so re-delivered events converge on the same
// final state.
type Reconciler struct {
	store   workspace.Store
	catalog *Catalog
	now     func() time.Time
}

// NewReconciler creates a reconciler. Panics on nil dependencies to fail fast
// during initialization.
func NewReconciler(store workspace.Store, catalog *Catalog) *Reconciler {
	if store == nil {
		panic("billing: workspace store is required")
	}
	if catalog == nil {
		panic("billing: plan catalog is required")
	}
	return &Reconciler{
		store:   store,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PurchaseCompleted binds the Stripe customer to the workspace referenced in
// the checkout flow and assigns the purchased plan's entitlements. The
// billing-cycle anchor is set to the current day of month.
func (r *Reconciler) PurchaseCompleted(ctx context.Context, ev *Event) (*workspace.Workspace, error) {
	if ev.WorkspaceRef == "" || ev.CustomerID == "" {
		return nil, fmt.Errorf("%w: workspace_ref=%q customer=%q", ErrIncompleteEvent, ev.WorkspaceRef, ev.CustomerID)
	}

	plan, ok := r.catalog.Resolve(ev.PriceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrice, ev.PriceID)
	}

	change := plan.Change()
	change.StripeID = &ev.CustomerID
	anchor := r.now().Day()
	change.BillingCycleStart = &anchor

	ws, err := r.store.Update(ctx, ev.WorkspaceRef, change)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return ws, nil
}

// SubscriptionUpdated assigns the new plan's name and limits, leaving the
// Stripe customer binding and billing-cycle anchor untouched.
func (r *Reconciler) SubscriptionUpdated(ctx context.Context, ev *Event) (*workspace.Workspace, error) {
	plan, ok := r.catalog.Resolve(ev.PriceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrice, ev.PriceID)
	}

	ws, err := r.store.UpdateByStripeID(ctx, ev.CustomerID, plan.Change())
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStaleEvent, ev.CustomerID)
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return ws, nil
}

// SubscriptionCancelled resets the workspace to the free tier.
func (r *Reconciler) SubscriptionCancelled(ctx context.Context, ev *Event) (*workspace.Workspace, error) {
	ws, err := r.store.UpdateByStripeID(ctx, ev.CustomerID, r.catalog.Free().Change())
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStaleEvent, ev.CustomerID)
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return ws, nil
}
