package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrtin42/dub/pkg/alert"
	"github.com/mrtin42/dub/pkg/email"
	"github.com/mrtin42/dub/pkg/logger"
	"github.com/mrtin42/dub/pkg/workspace"
)

// DomainCache invalidates cached redirect entries for short-link domains.
type DomainCache interface {
	Invalidate(ctx context.Context, domains ...string) error
}

// Service orchestrates one webhook request: verify, classify, reconcile,
// then fan out side effects. It holds no per-request state; the plan catalog
// is the only shared data and it is read-only.
type Service struct {
	provider   Provider
	reconciler *Reconciler
	dispatcher *Dispatcher
	mailer     email.EmailSender
	cache      DomainCache
	notifier   alert.Notifier
	log        *slog.Logger
}

// NewService creates the billing service. Panics on nil required dependencies
// to fail fast during initialization.
func NewService(
	provider Provider,
	store workspace.Store,
	catalog *Catalog,
	mailer email.EmailSender,
	cache DomainCache,
	notifier alert.Notifier,
	log *slog.Logger,
) *Service {
	if provider == nil {
		panic("billing: provider is required")
	}
	if mailer == nil {
		panic("billing: mailer is required")
	}
	if cache == nil {
		panic("billing: domain cache is required")
	}
	if notifier == nil {
		panic("billing: notifier is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		provider:   provider,
		reconciler: NewReconciler(store, catalog),
		dispatcher: NewDispatcher(log),
		mailer:     mailer,
		cache:      cache,
		notifier:   notifier,
		log:        log,
	}
}

// Receipt describes how an event was processed. Handled is false for benign
// no-ops (stale, incomplete, or unclassified events) that are still
// acknowledged to the provider.
type Receipt struct {
	Event   EventType `json:"event"`
	Handled bool      `json:"handled"`
}

// HandleWebhook processes one raw webhook delivery. The returned error
// carries the taxonomy sentinel (ErrMissingSignature, ErrVerificationFailed,
// ErrUnknownPrice, ErrStoreFailure); the HTTP handler is the only place that
// maps it to a response status. The authoritative store mutation always
// completes before any side effect is dispatched.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*Receipt, error) {
	ev, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return nil, err
	}

	switch ev.Type {
	case EventPurchaseCompleted:
		return s.handlePurchase(ctx, ev)
	case EventSubscriptionUpdated:
		return s.handleUpdate(ctx, ev)
	case EventSubscriptionCancelled:
		return s.handleCancellation(ctx, ev)
	default:
		s.log.DebugContext(ctx, "ignoring billing event with no reconciliation meaning",
			logger.EventType(ev.ProviderEvent))
		return &Receipt{Event: EventUnclassified}, nil
	}
}

func (s *Service) handlePurchase(ctx context.Context, ev *Event) (*Receipt, error) {
	ws, err := s.reconciler.PurchaseCompleted(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrIncompleteEvent) {
			s.operatorAlert(ctx, ev, err, true)
			return &Receipt{Event: ev.Type}, nil
		}
		return nil, s.reportFailure(ctx, ev, err)
	}

	plan, _ := s.reconciler.catalog.Resolve(ev.PriceID)

	effects := make([]Effect, 0, len(ws.Users))
	for _, user := range ws.Users {
		if user.Email == "" {
			continue
		}
		params := upgradeEmail(ws, plan, user)
		effects = append(effects, Effect{
			Name: "upgrade-email:" + user.Email,
			Run: func(ctx context.Context) error {
				return s.mailer.SendEmail(ctx, params)
			},
		})
	}
	s.dispatcher.Dispatch(ctx, effects...)

	s.log.InfoContext(ctx, "workspace upgraded",
		logger.WorkspaceID(ws.ID), logger.StripeID(ev.CustomerID), slog.String("plan", ws.Plan))
	return &Receipt{Event: ev.Type, Handled: true}, nil
}

func (s *Service) handleUpdate(ctx context.Context, ev *Event) (*Receipt, error) {
	ws, err := s.reconciler.SubscriptionUpdated(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrStaleEvent) {
			return s.acknowledgeStale(ctx, ev, err), nil
		}
		return nil, s.reportFailure(ctx, ev, err)
	}

	s.log.InfoContext(ctx, "workspace plan changed",
		logger.WorkspaceID(ws.ID), logger.StripeID(ev.CustomerID), slog.String("plan", ws.Plan))
	return &Receipt{Event: ev.Type, Handled: true}, nil
}

func (s *Service) handleCancellation(ctx context.Context, ev *Event) (*Receipt, error) {
	ws, err := s.reconciler.SubscriptionCancelled(ctx, ev)
	if err != nil {
		if errors.Is(err, ErrStaleEvent) {
			return s.acknowledgeStale(ctx, ev, err), nil
		}
		return nil, s.reportFailure(ctx, ev, err)
	}

	// The downgrade is committed; everything below is best-effort and
	// submitted as one concurrent batch.
	domains := ws.DomainSlugs()
	recipients := ws.UserEmails()
	survey := cancellationSurveyEmail(ws)

	effects := []Effect{
		{
			Name: "invalidate-domain-cache",
			Run: func(ctx context.Context) error {
				return s.cache.Invalidate(ctx, domains...)
			},
		},
		{
			Name: "cancellation-survey-email",
			Run: func(ctx context.Context) error {
				return s.mailer.SendBatch(ctx, recipients, survey)
			},
		},
		{
			Name: "cancellation-audit-notice",
			Run: func(ctx context.Context) error {
				return s.notifier.Notify(ctx, alert.Message{
					Text:     fmt.Sprintf("workspace %s (%s) cancelled its subscription and is back on the free plan", ws.Name, ws.ID),
					Severity: alert.SeverityInfo,
				})
			},
		},
	}
	s.dispatcher.Dispatch(ctx, effects...)

	s.log.InfoContext(ctx, "workspace downgraded to free plan",
		logger.WorkspaceID(ws.ID), logger.StripeID(ev.CustomerID))
	return &Receipt{Event: ev.Type, Handled: true}, nil
}

// acknowledgeStale logs and surfaces correlation-key drift without failing
// the request; the provider does not need confirmation of a missing local
// account.
func (s *Service) acknowledgeStale(ctx context.Context, ev *Event, err error) *Receipt {
	s.log.WarnContext(ctx, "billing event references unknown workspace",
		logger.EventType(ev.ProviderEvent), logger.StripeID(ev.CustomerID), logger.Error(err))
	s.operatorAlert(ctx, ev, err, false)
	return &Receipt{Event: ev.Type}
}

// reportFailure logs the failure with its raw cause and raises an operator
// alert before handing the error back for status mapping.
func (s *Service) reportFailure(ctx context.Context, ev *Event, err error) error {
	s.log.ErrorContext(ctx, "failed to reconcile billing event",
		logger.EventType(ev.ProviderEvent),
		logger.StripeID(ev.CustomerID),
		logger.PriceID(ev.PriceID),
		logger.Error(err))
	s.operatorAlert(ctx, ev, err, true)
	return err
}

func (s *Service) operatorAlert(ctx context.Context, ev *Event, err error, mention bool) {
	msg := alert.Message{
		Text:     fmt.Sprintf("stripe webhook %s: %v", ev.ProviderEvent, err),
		Severity: alert.SeverityError,
		Mention:  mention,
	}
	if notifyErr := s.notifier.Notify(ctx, msg); notifyErr != nil {
		s.log.ErrorContext(ctx, "failed to deliver operator alert", logger.Error(notifyErr))
	}
}
