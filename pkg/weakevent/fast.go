package weakevent

// FastEvent is a weak event that dispatches through thunks compiled once per
// subscribed method and shared process-wide. Handlers built with Bind or
// Static get a thunk specialised to their receiver and args types.
//
// A thunk converts the bus-level EventArgs to the type its handler declared
// on every call. Raising args the handler does not accept returns a
// TypeMismatchError instead of calling it.
//
// FastEvent is not safe for concurrent use.
type FastEvent struct {
	reg registry[thunk]
}

// NewFast creates an empty FastEvent.
func NewFast(opts ...Option) *FastEvent {
	return &FastEvent{reg: newRegistry[thunk](opts)}
}

// Add registers h, compiling its thunk on first use of the method.
// Adding the zero Handler does nothing.
func (e *FastEvent) Add(h Handler) error {
	if h.IsZero() {
		return nil
	}
	if err := h.validate(); err != nil {
		return e.reg.rejected(h, err)
	}
	key, _ := h.key()
	e.reg.add(h, key, loadThunk(key, h))
	return nil
}

// Remove drops the most recent registration of h, if any.
func (e *FastEvent) Remove(h Handler) {
	if h.IsZero() {
		return
	}
	e.reg.remove(h)
}

// Len returns the number of stored registrations, including dead ones not yet
// pruned.
func (e *FastEvent) Len() int {
	return e.reg.len()
}

// Cap returns the capacity of the entry storage. The next Add prunes dead
// entries when Len equals Cap.
func (e *FastEvent) Cap() int {
	return e.reg.cap()
}

// Raise calls every live handler in registration order. See Event.Raise.
func (e *FastEvent) Raise(sender any, args EventArgs) error {
	needsCleanup := false
	for _, ent := range e.reg.snapshot() {
		var target any
		if ent.target != nil {
			if target = ent.target.value(); target == nil {
				needsCleanup = true
				continue
			}
		}
		if err := ent.call(target, sender, args); err != nil {
			return err
		}
	}
	if needsCleanup {
		e.reg.removeDeadEntries()
	}
	return nil
}
