package async

import (
	"context"
	"fmt"
)

// Future is the result of a function running on its own goroutine.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Go runs fn on a new goroutine. fn is not started when ctx is already done.
// Panics in fn are recovered and reported as an error wrapping ErrPanic.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		f.result, f.err = fn(ctx)
	}()
	return f
}

// Await blocks until fn returns or ctx is done. In the latter case fn keeps
// running and its result is discarded.
func (f *Future[U]) Await(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done is closed once fn has returned.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// WaitAll awaits futures in order and stops at the first error.
func WaitAll[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, 0, len(futures))
	for _, f := range futures {
		res, err := f.Await(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
