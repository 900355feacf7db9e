// Package eventsource wraps weak events behind a subscribe/unsubscribe pair
// and a trigger, the way an object exposes an event to its callers.
//
// NewSmart backs a source with weakevent.Event, NewFast with
// weakevent.FastEvent. NewNormal keeps plain strong callbacks and serves as
// the reference point: its subscribers stay alive as long as the source does.
//
//	src := eventsource.NewFast()
//	l := eventsource.NewListener(src)
//	if err := l.Attach(); err != nil {
//	    return err
//	}
//	_ = src.Trigger()
//
// Listener is a ready-made subscriber that counts its invocations and signals
// when the garbage collector reclaims it, which makes leak checks observable.
package eventsource
