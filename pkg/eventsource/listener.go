package eventsource

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/weakevent/pkg/logger"
	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

// Listener subscribes to a Source and counts the events it receives.
type Listener struct {
	id        uuid.UUID
	source    Source
	hits      int
	onHit     func(id uuid.UUID)
	logger    *slog.Logger
	reclaimed chan struct{}
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// OnHit registers fn to be called with the listener ID on every event. fn
// must not reference the listener, or the listener can never be reclaimed.
func OnHit(fn func(id uuid.UUID)) ListenerOption {
	return func(l *Listener) {
		l.onHit = fn
	}
}

// WithListenerLogger sets the logger. Nil loggers are ignored.
func WithListenerLogger(log *slog.Logger) ListenerOption {
	return func(l *Listener) {
		if log != nil {
			l.logger = log
		}
	}
}

type reclaimSignal struct {
	done   chan struct{}
	logger *slog.Logger
}

// NewListener creates a listener for source. It does not subscribe yet.
func NewListener(source Source, opts ...ListenerOption) *Listener {
	l := &Listener{
		id:        uuid.New(),
		source:    source,
		logger:    slog.Default(),
		reclaimed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(logger.Listener(l.id))

	runtime.AddCleanup(l, func(s reclaimSignal) {
		s.logger.Debug("listener reclaimed")
		close(s.done)
	}, reclaimSignal{done: l.reclaimed, logger: l.logger})
	return l
}

func (l *Listener) ID() uuid.UUID { return l.id }

// Hits returns the number of events received.
func (l *Listener) Hits() int { return l.hits }

// Attach subscribes the listener to its source.
func (l *Listener) Attach() error {
	return l.source.Subscribe(weakevent.Bind(l, (*Listener).OnEvent))
}

// Detach removes the subscription made by Attach.
func (l *Listener) Detach() {
	l.source.Unsubscribe(weakevent.Bind(l, (*Listener).OnEvent))
}

// OnEvent is the handler Attach subscribes.
func (l *Listener) OnEvent(sender any, _ weakevent.EventArgs) {
	l.hits++
	if src, ok := sender.(Source); ok {
		l.logger.Debug("event received", logger.Source(src.Name()), logger.Hits(l.hits))
	}
	if l.onHit != nil {
		l.onHit(l.id)
	}
}

// Reclaimed returns a channel closed after the garbage collector reclaims l.
// Keep the channel and drop every reference to l to observe it.
func (l *Listener) Reclaimed() <-chan struct{} {
	return l.reclaimed
}

// AwaitReclaimed forces garbage collections until reclaimed is closed or ctx
// is done.
func AwaitReclaimed(ctx context.Context, reclaimed <-chan struct{}) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		runtime.GC()
		select {
		case <-reclaimed:
			return nil
		case <-ctx.Done():
			return errors.Join(ErrNotReclaimed, ctx.Err())
		case <-ticker.C:
		}
	}
}
