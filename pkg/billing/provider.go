package billing

import "context"

// Provider validates and classifies incoming webhook notifications from the
// payment provider. Implementations must verify the signature against the
// exact raw bytes received; re-serializing the body before verification
// breaks byte-exact signatures.
type Provider interface {
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)
}
