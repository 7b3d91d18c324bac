package billing

// EventType is the closed set of billing lifecycle events this service
// reconciles. Every provider event outside the three meaningful types maps to
// EventUnclassified, which is acknowledged and otherwise ignored.
type EventType string

const (
	// EventPurchaseCompleted is the first successful checkout for a
	// workspace, binding its Stripe customer to the account.
	EventPurchaseCompleted EventType = "purchase_completed"

	// EventSubscriptionUpdated is a plan change on an existing subscription.
	EventSubscriptionUpdated EventType = "subscription_updated"

	// EventSubscriptionCancelled is a subscription deletion; the workspace
	// falls back to the free tier.
	EventSubscriptionCancelled EventType = "subscription_cancelled"

	// EventUnclassified covers provider events with no reconciliation
	// meaning here.
	EventUnclassified EventType = "unclassified"
)

// Event is a verified, classified billing notification. Constructed once per
// request by the provider and never mutated.
type Event struct {
	Type EventType

	// ProviderEvent is the original provider event name, kept for logging.
	ProviderEvent string

	// WorkspaceRef is the workspace identifier embedded in the checkout flow
	// (Stripe client_reference_id). Only purchase events carry it.
	WorkspaceRef string

	// CustomerID is the provider's customer identifier, the correlation key
	// for all post-purchase events.
	CustomerID string

	// PriceID is the provider's price identifier used to select a plan.
	PriceID string

	// Raw holds the full provider payload for diagnostics.
	Raw map[string]any
}
