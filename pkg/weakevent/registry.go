package weakevent

import (
	"log/slog"
	"slices"
)

// entry is one registration. target is nil for static handlers.
type entry[P any] struct {
	target weakTarget
	key    methodKey
	call   P
}

func (e entry[P]) dead() bool {
	return e.target != nil && e.target.value() == nil
}

// registry holds entries in insertion order. Event and FastEvent share it and
// differ only in the call payload P.
type registry[P any] struct {
	entries []entry[P]
	logger  *slog.Logger
}

func newRegistry[P any](opts []Option) registry[P] {
	o := applyOptions(opts)
	return registry[P]{
		entries: make([]entry[P], 0, o.capacity),
		logger:  o.logger,
	}
}

func (r *registry[P]) add(h Handler, key methodKey, call P) {
	if len(r.entries) == cap(r.entries) {
		r.removeDeadEntries()
	}
	var target weakTarget
	if h.weaken != nil {
		target = h.weaken()
	}
	r.entries = append(r.entries, entry[P]{target: target, key: key, call: call})
}

// remove drops the most recent registration matching h. Dead entries visited
// on the way are dropped too.
func (r *registry[P]) remove(h Handler) {
	key, ok := h.key()
	if !ok {
		return
	}
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.target == nil {
			if h.target == nil && e.key == key {
				r.entries = slices.Delete(r.entries, i, i+1)
				return
			}
			continue
		}
		switch live := e.target.value(); {
		case live == nil:
			r.entries = slices.Delete(r.entries, i, i+1)
		case live == h.target && e.key == key:
			r.entries = slices.Delete(r.entries, i, i+1)
			return
		}
	}
}

// snapshot returns a copy that handlers cannot disturb by adding or removing
// during dispatch.
func (r *registry[P]) snapshot() []entry[P] {
	return slices.Clone(r.entries)
}

func (r *registry[P]) removeDeadEntries() {
	before := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, entry[P].dead)
	if pruned := before - len(r.entries); pruned > 0 {
		r.log().Debug("weakevent: pruned dead entries",
			slog.Int("pruned", pruned),
			slog.Int("remaining", len(r.entries)),
		)
	}
}

func (r *registry[P]) len() int {
	return len(r.entries)
}

func (r *registry[P]) cap() int {
	return cap(r.entries)
}

func (r *registry[P]) rejected(h Handler, err error) error {
	r.log().Debug("weakevent: handler rejected",
		slog.String("handler", h.Name()),
		slog.Any("error", err),
	)
	return err
}

// log tolerates the zero Event and FastEvent.
func (r *registry[P]) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}
