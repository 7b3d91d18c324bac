package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrtin42/dub/pkg/billing"
	"github.com/mrtin42/dub/pkg/logger"
)

// stripeSignatureHeader carries the webhook signature Stripe computes over
// the raw request body.
const stripeSignatureHeader = "Stripe-Signature"

// WebhookService is the part of the billing service this module exposes
// over HTTP.
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*billing.Receipt, error)
}

// Router mounts the billing webhook endpoints.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/billing", billing.Router(svc, log))
func Router(svc WebhookService, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	r.Post("/stripe", webhookHandler(svc, log))
	return r
}

// webhookHandler is the single place that maps service errors to response
// statuses. Signature and verification failures, unresolvable prices, and
// store failures all answer with a client error so Stripe's retry policy
// re-delivers where it should; benign no-ops are acknowledged with 200.
func webhookHandler(svc WebhookService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The signature covers the exact bytes Stripe sent; the body must
		// reach the verifier unparsed and unmodified.
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		receipt, err := svc.HandleWebhook(r.Context(), payload, r.Header.Get(stripeSignatureHeader))
		if err != nil {
			switch {
			case errors.Is(err, billing.ErrMissingSignature), errors.Is(err, billing.ErrVerificationFailed):
				respondError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, billing.ErrUnknownPrice):
				respondError(w, http.StatusBadRequest, err.Error())
			default:
				// Store failures and anything unexpected: answer non-2xx so
				// the event is re-delivered later.
				log.ErrorContext(r.Context(), "webhook processing failed", logger.Error(err))
				respondError(w, http.StatusBadRequest, err.Error())
			}
			return
		}

		respondJSON(w, http.StatusOK, receipt)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
