package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/weakevent/pkg/async"
	"github.com/dmitrymomot/weakevent/pkg/eventsource"
	"github.com/dmitrymomot/weakevent/pkg/logger"
	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

var (
	errNoScenarios     = errors.New("no scenarios defined")
	errInvalidScenario = errors.New("invalid scenario")
)

// scenario describes one timed source: how it dispatches and who listens.
type scenario struct {
	Name        string           `yaml:"name"`
	Kind        eventsource.Kind `yaml:"kind"`
	Static      bool             `yaml:"static"`
	Subscribers int              `yaml:"subscribers"`
	Baseline    bool             `yaml:"baseline"`
}

type scenarioFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

type result struct {
	scenario scenario
	bench    testing.BenchmarkResult
}

// defaultScenarios is a static handler plus one method handler per strategy,
// normal events being the baseline.
func defaultScenarios() []scenario {
	return []scenario{
		{Name: "Normal (strong) event", Kind: eventsource.KindNormal, Static: true, Subscribers: 1, Baseline: true},
		{Name: "Smart weak event", Kind: eventsource.KindSmart, Static: true, Subscribers: 1},
		{Name: "Fast smart weak event", Kind: eventsource.KindFast, Static: true, Subscribers: 1},
	}
}

// parseScenarios reads a document of the form
//
//	scenarios:
//	  - name: fast, ten listeners
//	    kind: fast
//	    subscribers: 10
func parseScenarios(r io.Reader) ([]scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f scenarioFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoScenarios
		}
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errNoScenarios
	}
	for i, sc := range f.Scenarios {
		if _, err := eventsource.ParseKind(string(sc.Kind)); err != nil {
			return nil, fmt.Errorf("%w %d: %w", errInvalidScenario, i, err)
		}
		if sc.Subscribers < 0 {
			return nil, fmt.Errorf("%w %d: negative subscriber count", errInvalidScenario, i)
		}
		if sc.Name == "" {
			f.Scenarios[i].Name = fmt.Sprintf("%s/%d", sc.Kind, sc.Subscribers)
		}
	}
	return f.Scenarios, nil
}

type benchSubscriber struct {
	calls int
	last  weakevent.EventArgs
}

func (s *benchSubscriber) OnEvent(_ any, args weakevent.EventArgs) {
	s.calls++
	s.last = args
}

func staticOnEvent(_ any, _ weakevent.EventArgs) {}

func runScenarios(ctx context.Context, l *slog.Logger, scenarios []scenario) ([]result, error) {
	results := make([]result, 0, len(scenarios))
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		// testing.Benchmark cannot be interrupted; Await returns on cancellation
		// and leaves the run to finish in the background.
		res, err := async.Go(ctx, func(context.Context) (testing.BenchmarkResult, error) {
			return runScenario(sc)
		}).Await(ctx)
		if err != nil {
			return results, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		l.InfoContext(ctx, "scenario finished",
			logger.Scenario(sc.Name),
			logger.Strategy(string(sc.Kind)),
			logger.Subscribers(sc.Subscribers),
			logger.NsPerOp(res.NsPerOp()),
		)
		results = append(results, result{scenario: sc, bench: res})
	}
	return results, nil
}

// runScenario times Trigger on a source populated as sc describes.
func runScenario(sc scenario) (testing.BenchmarkResult, error) {
	src, err := eventsource.New(sc.Kind, eventsource.WithCapacity(sc.Subscribers+1))
	if err != nil {
		return testing.BenchmarkResult{}, err
	}
	if sc.Static {
		if err := src.Subscribe(weakevent.Static(staticOnEvent)); err != nil {
			return testing.BenchmarkResult{}, err
		}
	}
	subs := make([]*benchSubscriber, sc.Subscribers)
	for i := range subs {
		subs[i] = &benchSubscriber{}
		if err := src.Subscribe(weakevent.Bind(subs[i], (*benchSubscriber).OnEvent)); err != nil {
			return testing.BenchmarkResult{}, err
		}
	}
	// Surface dispatch errors before timing.
	if err := src.Trigger(); err != nil {
		return testing.BenchmarkResult{}, err
	}

	res := testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_ = src.Trigger()
		}
	})
	runtime.KeepAlive(subs)
	return res, nil
}

func writeResults(w io.Writer, results []result) error {
	var baseline float64
	for _, r := range results {
		if r.scenario.Baseline {
			baseline = nsPerOp(r.bench)
			break
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tKind\tSubscribers\tns/op\tallocs/op\tRatio")
	for _, r := range results {
		ratio := "-"
		if baseline > 0 {
			ratio = fmt.Sprintf("%.2f", nsPerOp(r.bench)/baseline)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%d\t%s\n",
			r.scenario.Name, r.scenario.Kind, r.scenario.Subscribers,
			nsPerOp(r.bench), r.bench.AllocsPerOp(), ratio)
	}
	return tw.Flush()
}

// nsPerOp keeps sub-nanosecond precision that BenchmarkResult.NsPerOp truncates.
func nsPerOp(r testing.BenchmarkResult) float64 {
	if r.N <= 0 {
		return 0
	}
	return float64(r.T.Nanoseconds()) / float64(r.N)
}
