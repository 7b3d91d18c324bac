package alert_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtin42/dub/pkg/alert"
)

func TestNewWebhookNotifier(t *testing.T) {
	_, err := alert.NewWebhookNotifier(alert.Config{})
	assert.ErrorIs(t, err, alert.ErrInvalidConfig)
}

func TestWebhookNotifier_Notify(t *testing.T) {
	t.Run("delivers signed payload", func(t *testing.T) {
		const secret = "ops-secret"

		var received alert.Message
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &received))

			ts := r.Header.Get("X-Webhook-Timestamp")
			require.NotEmpty(t, ts)
			require.NotEmpty(t, r.Header.Get("X-Webhook-ID"))

			mac := hmac.New(sha256.New, []byte(secret))
			fmt.Fprintf(mac, "%s.%s", ts, body)
			assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), r.Header.Get("X-Webhook-Signature"))

			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		n, err := alert.NewWebhookNotifier(alert.Config{WebhookURL: srv.URL, SigningSecret: secret})
		require.NoError(t, err)

		msg := alert.Message{Text: "workspace acct_1 missing for cus_42", Severity: alert.SeverityError, Mention: true}
		require.NoError(t, n.Notify(context.Background(), msg))
		assert.Equal(t, msg, received)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		n, err := alert.NewWebhookNotifier(alert.Config{WebhookURL: srv.URL})
		require.NoError(t, err)

		err = n.Notify(context.Background(), alert.Message{Text: "hello", Severity: alert.SeverityInfo})
		assert.ErrorIs(t, err, alert.ErrDeliveryFailed)
	})
}
