// Package async runs a function on its own goroutine and lets the caller wait
// for its result with a context.
//
//	f := async.Go(ctx, func(ctx context.Context) (int, error) {
//	    return slowComputation(ctx)
//	})
//	n, err := f.Await(ctx)
//
// Await returns ctx.Err() as soon as ctx is done, without waiting for the
// function; the function itself is only told through the context it receives.
package async
