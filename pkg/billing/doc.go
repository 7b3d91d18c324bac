// Package billing reconciles Stripe subscription lifecycle webhooks against
// workspace entitlements.
//
// One request flows through four stages: the provider verifies the signature
// over the exact raw bytes and classifies the payload into a closed event
// type; the catalog resolves the price identifier to a plan; the reconciler
// applies the implied transition to the workspace record as a deterministic,
// idempotent field assignment; and the dispatcher fans out non-authoritative
// side effects (emails, cache invalidation, audit notices) concurrently,
// tolerating individual failures.
//
// The store mutation always commits before any side effect starts. Effects
// never fail the request: a failed request would trigger the provider's
// retry policy and risk duplicate authoritative mutations.
//
// Error handling is strictly local. Inner components return taxonomy
// sentinels (ErrMissingSignature, ErrVerificationFailed, ErrIncompleteEvent,
// ErrUnknownPrice, ErrStaleEvent, ErrStoreFailure) and the HTTP layer in
// modules/billing is the only place that decides response status.
package billing
