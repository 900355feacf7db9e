package weakevent

import "log/slog"

// Option configures an Event or FastEvent.
type Option func(*options)

type options struct {
	capacity int
	name     string
	logger   *slog.Logger
}

// WithCapacity sets the initial entry capacity. Dead entries are pruned each
// time an Add finds the storage full.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithName attaches the event name to log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
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

func applyOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.name != "" {
		o.logger = o.logger.With(slog.String("event", o.name))
	}
	return o
}
