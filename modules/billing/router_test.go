package billing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingmodule "github.com/mrtin42/dub/modules/billing"
	"github.com/mrtin42/dub/pkg/billing"
)

type stubService struct {
	receipt *billing.Receipt
	err     error

	payload   []byte
	signature string
}

func (s *stubService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*billing.Receipt, error) {
	s.payload = payload
	s.signature = signature
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func postWebhook(t *testing.T, svc *stubService, body, signature string) *httptest.ResponseRecorder {
	t.Helper()

	router := billingmodule.Router(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/stripe", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler(t *testing.T) {
	t.Run("passes raw body and signature through", func(t *testing.T) {
		svc := &stubService{receipt: &billing.Receipt{Event: billing.EventPurchaseCompleted, Handled: true}}
		body := `{"id":"evt_1"}`

		rec := postWebhook(t, svc, body, "t=1,v1=abc")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, body, string(svc.payload), "body must reach the service byte-exact")
		assert.Equal(t, "t=1,v1=abc", svc.signature)
		assert.JSONEq(t, `{"event":"purchase_completed","handled":true}`, rec.Body.String())
	})

	t.Run("missing signature", func(t *testing.T) {
		svc := &stubService{err: billing.ErrMissingSignature}

		rec := postWebhook(t, svc, `{}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing webhook signature")
	})

	t.Run("verification failure", func(t *testing.T) {
		svc := &stubService{err: billing.ErrVerificationFailed}

		rec := postWebhook(t, svc, `{}`, "t=1,v1=bad")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown price", func(t *testing.T) {
		svc := &stubService{err: billing.ErrUnknownPrice}

		rec := postWebhook(t, svc, `{}`, "t=1,v1=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure answers non-2xx so the event is re-delivered", func(t *testing.T) {
		svc := &stubService{err: billing.ErrStoreFailure}

		rec := postWebhook(t, svc, `{}`, "t=1,v1=abc")
		require.GreaterOrEqual(t, rec.Code, 400)
	})

	t.Run("benign no-op is acknowledged", func(t *testing.T) {
		svc := &stubService{receipt: &billing.Receipt{Event: billing.EventUnclassified}}

		rec := postWebhook(t, svc, `{}`, "t=1,v1=abc")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"event":"unclassified","handled":false}`, rec.Body.String())
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		router := billingmodule.Router(&stubService{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/stripe", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
