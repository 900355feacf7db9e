package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/weakevent/pkg/eventsource"
	"github.com/dmitrymomot/weakevent/pkg/logger"
	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

var demoKinds = []eventsource.Kind{eventsource.KindSmart, eventsource.KindFast}

// collectingListener attaches a listener, raises once, drops the listener and
// raises again after the collector has reclaimed it.
func collectingListener(ctx context.Context, w io.Writer, l *slog.Logger, kind eventsource.Kind, timeout time.Duration) error {
	src, err := eventsource.New(kind, eventsource.WithLogger(l))
	if err != nil {
		return err
	}

	var hits atomic.Int32
	reclaimed, err := attachAndRaise(src, l, &hits)
	if err != nil {
		return err
	}
	before := hits.Load()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	werr := eventsource.AwaitReclaimed(waitCtx, reclaimed)
	if werr != nil && !errors.Is(werr, eventsource.ErrNotReclaimed) {
		return werr
	}

	if err := src.Trigger(); err != nil {
		return err
	}
	after := hits.Load() - before

	l.InfoContext(ctx, "collecting listener finished",
		logger.Source(src.Name()),
		logger.Hits(int(hits.Load())),
		slog.Bool("reclaimed", werr == nil),
	)
	fmt.Fprintf(w, "  %s: raised %d time(s), reclaimed: %t, raised after collection: %d\n",
		kind, before, werr == nil, after)
	return nil
}

// attachAndRaise keeps the listener out of the caller's frame so nothing but
// the source can see it once this returns.
func attachAndRaise(src eventsource.Source, l *slog.Logger, hits *atomic.Int32) (<-chan struct{}, error) {
	ln := eventsource.NewListener(src,
		eventsource.WithListenerLogger(l),
		eventsource.OnHit(func(uuid.UUID) { hits.Add(1) }),
	)
	if err := ln.Attach(); err != nil {
		return nil, err
	}
	if err := src.Trigger(); err != nil {
		return nil, err
	}
	return ln.Reclaimed(), nil
}

// attachAnonymous subscribes a function literal that captures a local.
func attachAnonymous(w io.Writer, l *slog.Logger, kind eventsource.Kind) {
	src, err := eventsource.New(kind, eventsource.WithLogger(l))
	if err != nil {
		fmt.Fprintf(w, "  %s: %v\n", kind, err)
		return
	}
	text := "Hi"
	err = src.Subscribe(weakevent.Static(func(any, weakevent.EventArgs) {
		fmt.Fprintln(w, text)
	}))
	if weakevent.IsClosureCaptureError(err) {
		fmt.Fprintf(w, "  %s: got expected error: %v\n", kind, err)
		return
	}
	fmt.Fprintf(w, "  %s: attaching a function literal that captures locals should fail, got %v\n", kind, err)
}
