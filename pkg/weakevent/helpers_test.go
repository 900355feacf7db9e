package weakevent_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weakevent/pkg/weakevent"
)

type newBusFunc func(opts ...weakevent.Option) weakevent.Bus

var registries = []struct {
	name   string
	newBus newBusFunc
}{
	{"Event", func(opts ...weakevent.Option) weakevent.Bus { return weakevent.New(opts...) }},
	{"FastEvent", func(opts ...weakevent.Option) weakevent.Bus { return weakevent.NewFast(opts...) }},
}

// forEachRegistry runs fn as a parallel subtest against every registry.
func forEachRegistry(t *testing.T, fn func(t *testing.T, newBus newBusFunc)) {
	t.Helper()
	for _, r := range registries {
		t.Run(r.name, func(t *testing.T) {
			t.Parallel()
			fn(t, r.newBus)
		})
	}
}

type clickArgs struct {
	weakevent.Args
	X, Y int
}

type keyArgs struct {
	weakevent.Args
	Key string
}

type counter struct {
	hits *int
}

func newCounter() *counter {
	return &counter{hits: new(int)}
}

func (c *counter) OnEvent(_ any, _ weakevent.EventArgs) { *c.hits++ }

func (c *counter) OnClick(_ any, _ *clickArgs) { *c.hits++ }

func (c *counter) OnKey(_ any, _ *keyArgs) { *c.hits++ }

func (c *counter) OnCached(_ any, _ *keyArgs) { *c.hits++ }

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) OnEvent(_ any, _ weakevent.EventArgs) {
	*r.log = append(*r.log, r.name)
}

type capture struct {
	sender any
	args   weakevent.EventArgs
	calls  int
}

func (c *capture) OnEvent(sender any, args weakevent.EventArgs) {
	c.sender = sender
	c.args = args
	c.calls++
}

func (c *capture) OnClick(sender any, args *clickArgs) {
	c.sender = sender
	c.args = args
	c.calls++
}

// recordStatic appends "static" to the log carried as the sender.
func recordStatic(sender any, _ weakevent.EventArgs) {
	log := sender.(*[]string)
	*log = append(*log, "static")
}

func otherStatic(sender any, _ weakevent.EventArgs) {
	log := sender.(*[]string)
	*log = append(*log, "other")
}

// attachTransient subscribes a counter that nothing else references and
// returns a channel closed once the counter has been reclaimed.
func attachTransient(t *testing.T, bus weakevent.Bus, hits *int) <-chan struct{} {
	t.Helper()
	c := &counter{hits: hits}
	reclaimed := make(chan struct{})
	runtime.AddCleanup(c, func(ch chan struct{}) { close(ch) }, reclaimed)
	require.NoError(t, bus.Add(weakevent.Bind(c, (*counter).OnEvent)))
	return reclaimed
}

// waitReclaimed forces collections until reclaimed is closed.
func waitReclaimed(t *testing.T, reclaimed <-chan struct{}) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		runtime.GC()
		select {
		case <-reclaimed:
			return
		case <-deadline:
			t.Fatal("subscriber was not reclaimed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
