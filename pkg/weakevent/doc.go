// Package weakevent implements events whose subscriptions do not keep
// subscribers alive.
//
// A long-lived publisher holding ordinary callbacks becomes a strong root for
// every subscriber and everything those subscribers reference. The registries
// in this package hold subscribers through weak pointers instead: once a
// subscriber becomes unreachable elsewhere it is reclaimed, its registration
// is skipped on the next Raise and pruned afterwards.
//
// # Registries
//
// Two implementations satisfy the Bus interface:
//
//   - Event dispatches through reflection. It inspects each handler's signature
//     on every call and works for any accepted handler.
//   - FastEvent dispatches through thunks compiled once per subscribed method
//     and cached for the life of the process. Each thunk checks that the raised
//     args match the type its handler declared and returns a TypeMismatchError
//     otherwise.
//
// Both keep registrations in insertion order, dispatch over a snapshot so
// handlers may Add or Remove during Raise, and prune dead entries when Add
// finds the storage full or Raise meets a reclaimed target.
//
// # Handlers
//
// A handler takes an opaque sender and a value implementing EventArgs and
// returns nothing. Subscriptions are built from a receiver plus a method
// expression, never from a method value or a function literal:
//
//	type Listener struct {
//	    name string
//	    hits int
//	}
//
//	func (l *Listener) OnEvent(sender any, args weakevent.EventArgs) { l.hits++ }
//
//	ev := weakevent.NewFast()
//	l := &Listener{}
//	if err := ev.Add(weakevent.Bind(l, (*Listener).OnEvent)); err != nil {
//	    // ShapeError, ClosureCaptureError or ErrNilTarget
//	}
//	_ = ev.Raise(source, weakevent.Empty)
//	ev.Remove(weakevent.Bind(l, (*Listener).OnEvent))
//
// Static subscribes a package-level function. Method and Func are untyped
// variants whose shape is validated at runtime, once per function type.
//
// # Errors
//
// Add returns *ShapeError for functions that are not func([*T,] any, E) with E
// implementing EventArgs, and for receivers the runtime cannot track weakly:
// zero-sized types and pointer-free types under 16 bytes, which share memory
// blocks with unrelated objects. It returns *ClosureCaptureError for function
// literals, method values and reflect.MakeFunc results, and ErrNilTarget for
// method handlers without a receiver.
// Raise returns *TypeMismatchError when args cannot be passed to a handler.
// Panics raised by handlers are not recovered; they propagate to the caller of
// Raise and end that dispatch.
//
// # Concurrency
//
// Event and FastEvent are not safe for concurrent use. Wrap them in a mutex
// when they are shared between goroutines. The thunk cache and the shape cache
// are safe to share.
package weakevent
