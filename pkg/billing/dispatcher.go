package billing

import (
	"context"
	"log/slog"

	"github.com/mrtin42/dub/pkg/async"
	"github.com/mrtin42/dub/pkg/logger"
)

// Effect is an independent, non-authoritative side effect of a committed
// transition: a notification email, a cache invalidation, an audit notice.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher executes effects concurrently and waits for all of them to
// settle. Individual failures are logged with the effect name and never
// propagated: a transient email or cache outage must not fail the request,
// which would trigger a provider retry and risk duplicate authoritative
// mutations.
type Dispatcher struct {
	log *slog.Logger
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{log: log}
}

// Dispatch launches every effect and blocks until all have settled. One slow
// or failing effect does not delay the launch of the others.
func (d *Dispatcher) Dispatch(ctx context.Context, effects ...Effect) {
	if len(effects) == 0 {
		return
	}

	futures := make([]*async.Future[struct{}], len(effects))
	for i, effect := range effects {
		futures[i] = async.Async(ctx, effect, func(ctx context.Context, e Effect) (struct{}, error) {
			return struct{}{}, e.Run(ctx)
		})
	}

	for i, err := range async.Settle(futures...) {
		if err != nil {
			d.log.ErrorContext(ctx, "side effect failed", logger.Effect(effects[i].Name), logger.Error(err))
		}
	}
}
