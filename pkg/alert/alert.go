// Package alert delivers operator-visible notices (correlation drift, failed
// reconciliations, cancellations) to an ops channel. Delivery is best-effort:
// the billing flow never depends on an alert reaching its destination.
package alert

import "context"

// Severity classifies an alert for routing and formatting on the receiving end.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Message is a structured operator notice.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	// Mention asks the receiving channel to ping the on-call operator.
	// Informational notices leave it false.
	Mention bool `json:"mention"`
}

// Notifier sends operator alerts.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
