package eventsource

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/weakevent/pkg/logger"
	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

// Kind names the dispatch strategy behind a source.
type Kind string

const (
	KindNormal Kind = "normal"
	KindSmart  Kind = "smart"
	KindFast   Kind = "fast"
)

// ParseKind validates a strategy name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindNormal, KindSmart, KindFast:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Source is an event exposed by some object.
type Source interface {
	Subscribe(h weakevent.Handler) error
	Unsubscribe(h weakevent.Handler)
	// Trigger raises the event with the source as sender and empty args.
	Trigger() error
	Name() string
	Kind() Kind
	Len() int
}

var (
	_ Source = (*WeakSource)(nil)
	_ Source = (*NormalSource)(nil)
)

// New creates a source of the given kind.
func New(kind Kind, opts ...Option) (Source, error) {
	switch kind {
	case KindNormal:
		return NewNormal(opts...), nil
	case KindSmart:
		return NewSmart(opts...), nil
	case KindFast:
		return NewFast(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// WeakSource exposes a weak event. Subscribers are not kept alive by it.
type WeakSource struct {
	name   string
	kind   Kind
	bus    weakevent.Bus
	logger *slog.Logger
}

// NewSmart creates a source dispatching through reflection.
func NewSmart(opts ...Option) *WeakSource {
	o := applyOptions(KindSmart, opts)
	return newWeakSource(KindSmart, o, weakevent.New(o.eventOptions()...))
}

// NewFast creates a source dispatching through cached thunks.
func NewFast(opts ...Option) *WeakSource {
	o := applyOptions(KindFast, opts)
	return newWeakSource(KindFast, o, weakevent.NewFast(o.eventOptions()...))
}

func newWeakSource(kind Kind, o *options, bus weakevent.Bus) *WeakSource {
	return &WeakSource{
		name:   o.name,
		kind:   kind,
		bus:    bus,
		logger: o.logger.With(logger.Source(o.name), logger.Strategy(string(kind))),
	}
}

func (s *WeakSource) Subscribe(h weakevent.Handler) error {
	if err := s.bus.Add(h); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.name, err)
	}
	return nil
}

func (s *WeakSource) Unsubscribe(h weakevent.Handler) {
	s.bus.Remove(h)
}

func (s *WeakSource) Trigger() error {
	if err := s.bus.Raise(s, weakevent.Empty); err != nil {
		s.logger.Error("trigger failed", logger.Error(err))
		return err
	}
	return nil
}

func (s *WeakSource) Name() string { return s.name }

func (s *WeakSource) Kind() Kind { return s.kind }

// Len includes dead subscriptions that have not been pruned yet.
func (s *WeakSource) Len() int { return s.bus.Len() }

// NormalSource is an ordinary event holding strong callbacks. Subscribers
// live at least as long as their subscription.
type NormalSource struct {
	name     string
	handlers []strongHandler
	logger   *slog.Logger
}

type strongHandler struct {
	h    weakevent.Handler
	call func(sender any, args weakevent.EventArgs) error
}

// NewNormal creates a source holding its subscribers strongly.
func NewNormal(opts ...Option) *NormalSource {
	o := applyOptions(KindNormal, opts)
	return &NormalSource{
		name:     o.name,
		handlers: make([]strongHandler, 0, o.capacity),
		logger:   o.logger.With(logger.Source(o.name), logger.Strategy(string(KindNormal))),
	}
}

// Subscribe accepts any handler of a valid shape, function literals included.
func (s *NormalSource) Subscribe(h weakevent.Handler) error {
	if h.IsZero() {
		return nil
	}
	call, err := h.Bound()
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.name, err)
	}
	s.handlers = append(s.handlers, strongHandler{h: h, call: call})
	return nil
}

// Unsubscribe drops the most recent subscription equal to h.
func (s *NormalSource) Unsubscribe(h weakevent.Handler) {
	for i := len(s.handlers) - 1; i >= 0; i-- {
		if s.handlers[i].h.Equal(h) {
			s.handlers = slices.Delete(s.handlers, i, i+1)
			return
		}
	}
}

func (s *NormalSource) Trigger() error {
	for _, sh := range slices.Clone(s.handlers) {
		if err := sh.call(s, weakevent.Empty); err != nil {
			s.logger.Error("trigger failed", logger.Error(err))
			return err
		}
	}
	return nil
}

func (s *NormalSource) Name() string { return s.name }

func (s *NormalSource) Kind() Kind { return KindNormal }

func (s *NormalSource) Len() int { return len(s.handlers) }

func generateName(kind Kind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString()[:8])
}
