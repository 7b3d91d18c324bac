package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// EventType records the billing event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// WorkspaceID records the workspace identifier under the key "workspace_id".
func WorkspaceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("workspace_id", id)
}

// StripeID records the Stripe customer identifier under the key "stripe_id".
func StripeID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("stripe_id", id)
}

// PriceID records the Stripe price identifier under the key "price_id".
func PriceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("price_id", id)
}

// Domain records a short-link domain slug under the key "domain".
func Domain(slug string) slog.Attr {
	if slug == "" {
		return slog.Attr{}
	}
	return slog.String("domain", slug)
}

// Effect records a side-effect name under the key "effect".
func Effect(name string) slog.Attr {
	return slog.String("effect", name)
}
