package weakevent

import "reflect"

// Bus is the contract shared by Event and FastEvent.
type Bus interface {
	Add(h Handler) error
	Remove(h Handler)
	Raise(sender any, args EventArgs) error
	Len() int
}

var (
	_ Bus = (*Event)(nil)
	_ Bus = (*FastEvent)(nil)
)

// Event is a weak event that dispatches through reflection. It works for any
// handler accepted by Add and needs no per-method setup.
//
// Event is not safe for concurrent use.
type Event struct {
	reg registry[reflect.Value]
}

// New creates an empty Event.
func New(opts ...Option) *Event {
	return &Event{reg: newRegistry[reflect.Value](opts)}
}

// Add registers h. Adding the zero Handler does nothing.
func (e *Event) Add(h Handler) error {
	if h.IsZero() {
		return nil
	}
	if err := h.validate(); err != nil {
		return e.reg.rejected(h, err)
	}
	key, _ := h.key()
	e.reg.add(h, key, reflect.ValueOf(h.fn))
	return nil
}

// Remove drops the most recent registration of h, if any.
func (e *Event) Remove(h Handler) {
	if h.IsZero() {
		return
	}
	e.reg.remove(h)
}

// Len returns the number of stored registrations, including dead ones not yet
// pruned.
func (e *Event) Len() int {
	return e.reg.len()
}

// Cap returns the capacity of the entry storage. The next Add prunes dead
// entries when Len equals Cap.
func (e *Event) Cap() int {
	return e.reg.cap()
}

// Raise calls every live handler in registration order with sender and args.
// Handlers whose target has been reclaimed are skipped and pruned after the
// pass. A TypeMismatchError or a handler panic stops the dispatch.
func (e *Event) Raise(sender any, args EventArgs) error {
	needsCleanup := false
	for _, ent := range e.reg.snapshot() {
		var target any
		if ent.target != nil {
			if target = ent.target.value(); target == nil {
				needsCleanup = true
				continue
			}
		}
		if err := invoke(ent.call, target, sender, args); err != nil {
			return err
		}
	}
	if needsCleanup {
		e.reg.removeDeadEntries()
	}
	return nil
}

// invoke inspects fn's signature on every call.
func invoke(fn reflect.Value, target, sender any, args EventArgs) error {
	ft := fn.Type()
	av, err := argValue(ft.In(ft.NumIn()-1), args)
	if err != nil {
		return err
	}
	fn.Call(callArgs(target != nil, target, sender, av))
	return nil
}
