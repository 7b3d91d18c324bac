package billing_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrtin42/dub/pkg/billing"
)

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every effect", func(t *testing.T) {
		d := billing.NewDispatcher(nil)

		var ran atomic.Int32
		effects := make([]billing.Effect, 5)
		for i := range effects {
			effects[i] = billing.Effect{
				Name: "count",
				Run: func(ctx context.Context) error {
					ran.Add(1)
					return nil
				},
			}
		}

		d.Dispatch(ctx, effects...)
		assert.Equal(t, int32(5), ran.Load())
	})

	t.Run("one failure does not block the rest", func(t *testing.T) {
		d := billing.NewDispatcher(nil)

		var ran atomic.Int32
		d.Dispatch(ctx,
			billing.Effect{Name: "broken", Run: func(ctx context.Context) error {
				return errors.New("provider down")
			}},
			billing.Effect{Name: "fine", Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			}},
			billing.Effect{Name: "also-fine", Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			}},
		)
		assert.Equal(t, int32(2), ran.Load())
	})

	t.Run("a panicking effect is contained", func(t *testing.T) {
		d := billing.NewDispatcher(nil)

		var ran atomic.Int32
		assert.NotPanics(t, func() {
			d.Dispatch(ctx,
				billing.Effect{Name: "explodes", Run: func(ctx context.Context) error {
					panic("boom")
				}},
				billing.Effect{Name: "fine", Run: func(ctx context.Context) error {
					ran.Add(1)
					return nil
				}},
			)
		})
		assert.Equal(t, int32(1), ran.Load())
	})

	t.Run("effects run concurrently", func(t *testing.T) {
		d := billing.NewDispatcher(nil)

		start := time.Now()
		effects := make([]billing.Effect, 4)
		for i := range effects {
			effects[i] = billing.Effect{
				Name: "sleepy",
				Run: func(ctx context.Context) error {
					time.Sleep(50 * time.Millisecond)
					return nil
				},
			}
		}
		d.Dispatch(ctx, effects...)

		assert.Less(t, time.Since(start), 150*time.Millisecond,
			"four 50ms effects should settle well under their serial total")
	})

	t.Run("no effects is a no-op", func(t *testing.T) {
		d := billing.NewDispatcher(nil)
		assert.NotPanics(t, func() { d.Dispatch(ctx) })
	})
}
