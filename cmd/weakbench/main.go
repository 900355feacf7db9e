// Command weakbench demonstrates weak event sources and times them against a
// strong baseline.
//
// Settings are read from WEAKBENCH_* environment variables and an optional
// .env file:
//
//	WEAKBENCH_LOG_LEVEL        debug, info, warn or error (default info)
//	WEAKBENCH_LOG_FORMAT       text or json (default text)
//	WEAKBENCH_SCENARIOS        YAML file with benchmark scenarios
//	WEAKBENCH_SKIP_BENCH       run the demos only
//	WEAKBENCH_RECLAIM_TIMEOUT  how long to wait for a dropped listener (default 2s)
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/dmitrymomot/weakevent/pkg/config"
	"github.com/dmitrymomot/weakevent/pkg/logger"
)

type runIDKey struct{}

func main() {
	var s settings
	if err := config.LoadPrefixed("WEAKBENCH_", &s); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	l, err := newLogger(s, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	logger.SetAsDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s, l, os.Stdout); err != nil {
		l.Error("weakbench failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func newLogger(s settings, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(s.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
		logger.WithContextValue("run_id", runIDKey{}),
	), nil
}

func run(ctx context.Context, s settings, l *slog.Logger, w io.Writer) error {
	ctx = context.WithValue(ctx, runIDKey{}, uuid.NewString())
	l.InfoContext(ctx, "weakbench started")

	fmt.Fprintln(w, "Collecting listener")
	fmt.Fprintln(w, "The event should be raised once, then the listener should get garbage collected.")
	for _, kind := range demoKinds {
		if err := collectingListener(ctx, w, l, kind, s.ReclaimTimeout); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Attach anonymous function")
	for _, kind := range demoKinds {
		attachAnonymous(w, l, kind)
	}
	fmt.Fprintln(w)

	if s.SkipBench {
		l.InfoContext(ctx, "benchmarks skipped")
		return nil
	}

	scenarios, err := s.scenarios()
	if err != nil {
		return err
	}
	results, err := runScenarios(ctx, l, scenarios)
	if err != nil {
		return err
	}
	return writeResults(w, results)
}
