package billing

import "errors"

var (
	// ErrMissingSignature is returned when the signature header or the
	// configured webhook secret is absent.
	ErrMissingSignature = errors.New("billing: missing webhook signature")

	// ErrVerificationFailed is returned when the signature does not match
	// the payload or the payload is malformed.
	ErrVerificationFailed = errors.New("billing: webhook verification failed")

	// ErrIncompleteEvent marks a purchase event missing its workspace
	// reference or customer identifier. Logged and acknowledged; no mutation.
	ErrIncompleteEvent = errors.New("billing: event is missing required references")

	// ErrUnknownPrice is returned when no plan matches the event's price
	// identifier. Fatal to the event, not to the process.
	ErrUnknownPrice = errors.New("billing: no plan matches price")

	// ErrStaleEvent marks a lifecycle event referencing a Stripe customer
	// with no local workspace. Acknowledged to the provider as a no-op.
	ErrStaleEvent = errors.New("billing: no workspace for customer")

	// ErrStoreFailure wraps unexpected record-store errors. Surfaced as a
	// client error so the provider's retry policy re-delivers the event.
	ErrStoreFailure = errors.New("billing: record store update failed")

	// ErrDuplicatePrice and ErrMissingFreePlan are catalog construction errors.
	ErrDuplicatePrice  = errors.New("billing: price is mapped to more than one plan")
	ErrMissingFreePlan = errors.New("billing: catalog has no free plan")
)
