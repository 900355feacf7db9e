package eventsource_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weakevent/pkg/eventsource"
	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

var kinds = []eventsource.Kind{eventsource.KindNormal, eventsource.KindSmart, eventsource.KindFast}

var weakKinds = []eventsource.Kind{eventsource.KindSmart, eventsource.KindFast}

func newSource(t *testing.T, kind eventsource.Kind, opts ...eventsource.Option) eventsource.Source {
	t.Helper()
	src, err := eventsource.New(kind, opts...)
	require.NoError(t, err)
	return src
}

type typedArgs struct {
	weakevent.Args
}

type strict struct {
	hits int
	last *typedArgs
}

type senderProbe struct {
	sender any
	args   weakevent.EventArgs
}

func (p *senderProbe) OnEvent(sender any, args weakevent.EventArgs) {
	p.sender = sender
	p.args = args
}

func (s *strict) OnTyped(_ any, args *typedArgs) {
	s.hits++
	s.last = args
}

func TestSource(t *testing.T) {
	t.Parallel()

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			t.Run("attach trigger detach", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				l := eventsource.NewListener(src)
				require.NoError(t, l.Attach())
				assert.Equal(t, 1, src.Len())

				require.NoError(t, src.Trigger())
				assert.Equal(t, 1, l.Hits())

				l.Detach()
				assert.Zero(t, src.Len())
				require.NoError(t, src.Trigger())
				assert.Equal(t, 1, l.Hits())
			})

			t.Run("detach removes one subscription", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				l := eventsource.NewListener(src)
				require.NoError(t, l.Attach())
				require.NoError(t, l.Attach())
				l.Detach()

				require.NoError(t, src.Trigger())
				assert.Equal(t, 1, l.Hits())
			})

			t.Run("sender is the source", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				p := &senderProbe{}
				require.NoError(t, src.Subscribe(weakevent.Bind(p, (*senderProbe).OnEvent)))
				require.NoError(t, src.Trigger())
				assert.Same(t, src, p.sender)
				assert.Equal(t, weakevent.Empty, p.args)
			})

			t.Run("name and kind", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				assert.Equal(t, kind, src.Kind())
				assert.Regexp(t, "^"+string(kind)+"-[0-9a-f]{8}$", src.Name())
				assert.NotEqual(t, src.Name(), newSource(t, kind).Name())

				named := newSource(t, kind, eventsource.WithName("clicks"))
				assert.Equal(t, "clicks", named.Name())
			})

			t.Run("trigger reports mismatched handlers", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				s := &strict{}
				require.NoError(t, src.Subscribe(weakevent.Bind(s, (*strict).OnTyped)))

				err := src.Trigger()
				assert.True(t, weakevent.IsTypeMismatchError(err))
				assert.Zero(t, s.hits)
			})

			t.Run("on hit hook", func(t *testing.T) {
				t.Parallel()
				src := newSource(t, kind)
				var seen uuid.UUID
				l := eventsource.NewListener(src, eventsource.OnHit(func(id uuid.UUID) { seen = id }))
				require.NoError(t, l.Attach())
				require.NoError(t, src.Trigger())
				assert.Equal(t, l.ID(), seen)
			})
		})
	}
}

func TestClosureSubscription(t *testing.T) {
	t.Parallel()

	text := "Hi"
	handler := weakevent.Static(func(any, weakevent.EventArgs) { _ = text })

	for _, kind := range weakKinds {
		err := newSource(t, kind).Subscribe(handler)
		require.Error(t, err, kind)
		assert.True(t, weakevent.IsClosureCaptureError(err), kind)
	}
	assert.NoError(t, newSource(t, eventsource.KindNormal).Subscribe(handler))
}

// attachDropped attaches a listener and returns only its reclamation signal.
func attachDropped(t *testing.T, src eventsource.Source, hits *atomic.Int32) <-chan struct{} {
	t.Helper()
	l := eventsource.NewListener(src, eventsource.OnHit(func(uuid.UUID) { hits.Add(1) }))
	require.NoError(t, l.Attach())
	require.NoError(t, src.Trigger())
	return l.Reclaimed()
}

func TestCollectingListener(t *testing.T) {
	for _, kind := range weakKinds {
		t.Run(string(kind), func(t *testing.T) {
			src := newSource(t, kind)
			var hits atomic.Int32
			reclaimed := attachDropped(t, src, &hits)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			require.NoError(t, eventsource.AwaitReclaimed(ctx, reclaimed))

			require.NoError(t, src.Trigger())
			assert.Equal(t, int32(1), hits.Load())
			assert.Zero(t, src.Len(), "dead subscription must be pruned by trigger")
		})
	}

	t.Run(string(eventsource.KindNormal), func(t *testing.T) {
		src := newSource(t, eventsource.KindNormal)
		var hits atomic.Int32
		reclaimed := attachDropped(t, src, &hits)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		err := eventsource.AwaitReclaimed(ctx, reclaimed)
		assert.ErrorIs(t, err, eventsource.ErrNotReclaimed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, src.Trigger())
		assert.Equal(t, int32(2), hits.Load())
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, kind := range kinds {
		got, err := eventsource.ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := eventsource.ParseKind("thomas")
	assert.ErrorIs(t, err, eventsource.ErrUnknownKind)

	_, err = eventsource.New("thomas")
	assert.ErrorIs(t, err, eventsource.ErrUnknownKind)
}
