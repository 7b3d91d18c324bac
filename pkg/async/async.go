// Package async provides small helpers for running functions concurrently
// and joining on their results.
package async

import (
	"context"
	"fmt"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its
// result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion or the timeout, whichever comes
// first. On timeout it returns ErrTimeout with a zero result.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes fn in a new goroutine and returns a Future for its result.
// A panic inside fn is recovered and surfaced as the future's error so one
// misbehaving task cannot take down the process.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for every future to complete and returns their results along
// with the first error encountered, if any. All futures are awaited even when
// an earlier one failed.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// Settle waits for every future to complete and returns the error of each,
// index-aligned with the input. Unlike WaitAll, no error is singled out:
// callers that treat tasks as independent inspect the slice entry by entry.
func Settle[U any](futures ...*Future[U]) []error {
	errs := make([]error, len(futures))
	for i, future := range futures {
		_, errs[i] = future.Await()
	}
	return errs
}
