package alert

import (
	"context"
	"log/slog"
)

// LogNotifier writes alerts to the application log. Used in development and
// as the fallback when no ops webhook is configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	attrs := []any{slog.String("severity", string(msg.Severity)), slog.Bool("mention", msg.Mention)}
	if msg.Severity == SeverityError {
		n.log.ErrorContext(ctx, msg.Text, attrs...)
	} else {
		n.log.InfoContext(ctx, msg.Text, attrs...)
	}
	return nil
}
