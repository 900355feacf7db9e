package eventsource

import (
	"log/slog"

	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

// Option configures a source.
type Option func(*options)

type options struct {
	name     string
	capacity int
	logger   *slog.Logger
}

// WithName overrides the generated source name.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithCapacity sets the initial subscription capacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(kind Kind, opts []Option) *options {
	o := &options{
		name:   generateName(kind),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) eventOptions() []weakevent.Option {
	return []weakevent.Option{
		weakevent.WithName(o.name),
		weakevent.WithCapacity(o.capacity),
		weakevent.WithLogger(o.logger),
	}
}
