package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig holds Stripe provider configuration.
type StripeConfig struct {
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
}

// StripeProvider implements Provider for Stripe webhooks. Verification is
// delegated to stripe-go, which checks the HMAC signature and timestamp
// tolerance over the raw payload bytes.
type StripeProvider struct {
	secret string
}

// NewStripeProvider creates a Stripe webhook provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrMissingSignature)
	}
	return &StripeProvider{secret: cfg.WebhookSecret}, nil
}

// ParseWebhook verifies the payload signature and classifies the event.
func (p *StripeProvider) ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature header is empty", ErrMissingSignature)
	}

	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		// Webhook delivery keeps working across Stripe API version bumps;
		// the fields read below are stable.
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}

	event := &Event{
		Type:          classifyStripeEvent(string(stripeEvent.Type)),
		ProviderEvent: string(stripeEvent.Type),
	}

	var raw map[string]any
	if err := json.Unmarshal(stripeEvent.Data.Raw, &raw); err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}
	event.Raw = raw

	switch event.Type {
	case EventPurchaseCompleted:
		var session struct {
			ClientReferenceID string            `json:"client_reference_id"`
			Customer          string            `json:"customer"`
			Metadata          map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
			return nil, errors.Join(ErrVerificationFailed, err)
		}
		event.WorkspaceRef = session.ClientReferenceID
		event.CustomerID = session.Customer
		// Checkout sessions do not expand line items in the webhook payload;
		// the checkout flow stamps the purchased price into metadata.
		event.PriceID = session.Metadata["price_id"]

	case EventSubscriptionUpdated, EventSubscriptionCancelled:
		var sub struct {
			Customer string `json:"customer"`
			Items    struct {
				Data []struct {
					Price struct {
						ID string `json:"id"`
					} `json:"price"`
				} `json:"data"`
			} `json:"items"`
		}
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return nil, errors.Join(ErrVerificationFailed, err)
		}
		event.CustomerID = sub.Customer
		if len(sub.Items.Data) > 0 {
			event.PriceID = sub.Items.Data[0].Price.ID
		}
	}

	return event, nil
}

// classifyStripeEvent maps Stripe event names onto the closed EventType set.
func classifyStripeEvent(stripeType string) EventType {
	switch stripeType {
	case "checkout.session.completed":
		return EventPurchaseCompleted
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionCancelled
	default:
		return EventUnclassified
	}
}

var _ Provider = (*StripeProvider)(nil)
