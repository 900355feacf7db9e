package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors". All-nil input yields an
// empty Attr, which slog drops.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or nothing when err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Source records an event source name under "source".
func Source(name string) slog.Attr {
	return slog.String("source", name)
}

// Strategy records the dispatch strategy under "strategy".
func Strategy(name string) slog.Attr {
	return slog.String("strategy", name)
}

// Listener records a subscriber identifier under "listener".
func Listener(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("listener", id)
}

func Scenario(name string) slog.Attr {
	return slog.String("scenario", name)
}

func Subscribers(n int) slog.Attr {
	return slog.Int("subscribers", n)
}

func Hits(n int) slog.Attr {
	return slog.Int("hits", n)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// NsPerOp records a per-operation timing under "ns_per_op".
func NsPerOp(ns int64) slog.Attr {
	return slog.Int64("ns_per_op", ns)
}
