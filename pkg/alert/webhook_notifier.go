package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config holds webhook notifier configuration. An empty URL disables webhook
// delivery; callers fall back to NewLogNotifier.
type Config struct {
	WebhookURL    string        `env:"OPS_WEBHOOK_URL"`
	SigningSecret string        `env:"OPS_WEBHOOK_SECRET"`
	Timeout       time.Duration `env:"OPS_WEBHOOK_TIMEOUT" envDefault:"10s"`
}

// WebhookNotifier posts alerts as JSON to a Slack-compatible webhook URL.
// When a signing secret is configured, each request carries HMAC-SHA256
// signature headers so the receiver can authenticate the sender.
type WebhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhookNotifier creates a webhook-backed notifier.
func NewWebhookNotifier(cfg Config) (*WebhookNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: webhook URL is required", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookNotifier{
		url:    cfg.WebhookURL,
		secret: cfg.SigningSecret,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Notify delivers the message. A non-2xx response is an error; the caller
// decides whether that matters (the billing service treats it as best-effort).
func (n *WebhookNotifier) Notify(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if n.secret != "" {
		ts := time.Now().Unix()
		req.Header.Set("X-Webhook-Signature", signPayload(n.secret, ts, payload))
		req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(ts, 10))
		req.Header.Set("X-Webhook-ID", uuid.New().String())
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// signPayload computes HMAC-SHA256 over "timestamp.payload". Binding the
// timestamp into the signature prevents replaying captured requests.
func signPayload(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)
	return hex.EncodeToString(h.Sum(nil))
}
