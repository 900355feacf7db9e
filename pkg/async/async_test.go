package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weakevent/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	t.Run("returns the result", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(context.Context) (int, error) { return 42, nil })
		got, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		<-f.Done()
	})

	t.Run("returns the error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		f := async.Go(context.Background(), func(context.Context) (int, error) { return 0, boom })
		_, err := f.Await(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("recovers panics", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(context.Context) (int, error) { panic("bad") })
		_, err := f.Await(context.Background())
		assert.ErrorIs(t, err, async.ErrPanic)
		assert.Contains(t, err.Error(), "bad")
	})

	t.Run("skips cancelled work", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := make(chan struct{}, 1)
		f := async.Go(ctx, func(context.Context) (int, error) {
			called <- struct{}{}
			return 1, nil
		})
		<-f.Done()
		_, err := f.Await(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, called)
	})

	t.Run("await honours its context", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		defer close(release)
		f := async.Go(context.Background(), func(context.Context) (int, error) {
			<-release
			return 1, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	square := func(n int) *async.Future[int] {
		return async.Go(ctx, func(context.Context) (int, error) { return n * n, nil })
	}

	got, err := async.WaitAll(ctx, square(1), square(2), square(3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9}, got)

	boom := errors.New("boom")
	failing := async.Go(ctx, func(context.Context) (int, error) { return 0, boom })
	got, err = async.WaitAll(ctx, square(2), failing, square(3))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{4}, got)

	got, err = async.WaitAll[int](ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
