package weakevent

import (
	"reflect"
	"runtime"
	"weak"
)

// Handler describes a single subscription: an optional receiver and the
// function invoked on it. A Handler may hold its receiver strongly; registries
// only keep a weak reference to it, so build a Handler at the call site and
// let it go.
//
// The zero Handler is a valid "no handler" value: Add and Remove ignore it.
type Handler struct {
	target   any          // *T for method handlers, nil otherwise
	receiver reflect.Type // *T for method handlers
	fn       any
	weaken   func() weakTarget
	compile  func() thunk
}

// Bind subscribes a method expression on target, e.g.
//
//	weakevent.Bind(l, (*Listener).OnEvent)
//
// Registries see target only through a weak reference.
func Bind[T any, E EventArgs](target *T, method func(*T, any, E)) Handler {
	if method == nil {
		return Handler{}
	}
	h := Handler{
		receiver: reflect.TypeFor[*T](),
		fn:       method,
		compile:  func() thunk { return methodThunk(method) },
	}
	return h.withTarget(target, func() weakTarget { return makeWeak(target) })
}

// Static subscribes a package-level function. Static handlers have no target
// and live as long as the registration.
func Static[E EventArgs](fn func(any, E)) Handler {
	if fn == nil {
		return Handler{}
	}
	return Handler{
		fn:      fn,
		compile: func() thunk { return staticThunk(fn) },
	}
}

// Method is the untyped form of Bind. method must be a method expression of
// shape func(*T, any, E); the shape is checked when the handler is added.
func Method[T any](target *T, method any) Handler {
	if isNilFunc(method) {
		return Handler{}
	}
	h := Handler{
		receiver: reflect.TypeFor[*T](),
		fn:       method,
	}
	return h.withTarget(target, func() weakTarget { return makeWeak(target) })
}

// Func is the untyped form of Static. fn must have shape func(any, E).
func Func(fn any) Handler {
	if isNilFunc(fn) {
		return Handler{}
	}
	return Handler{fn: fn}
}

func (h Handler) withTarget(target any, weaken func() weakTarget) Handler {
	if !reflect.ValueOf(target).IsNil() {
		h.target = target
		h.weaken = weaken
	}
	return h
}

// IsZero reports whether h is the zero Handler.
func (h Handler) IsZero() bool {
	return h.fn == nil
}

// Name returns the runtime symbol name of the handler function.
func (h Handler) Name() string {
	v := reflect.ValueOf(h.fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	return funcName(v.Pointer())
}

// Equal reports whether h and o name the same function on the same target.
func (h Handler) Equal(o Handler) bool {
	hk, ok := h.key()
	if !ok {
		return false
	}
	okey, ok := o.key()
	return ok && hk == okey && h.target == o.target
}

// Bound returns a callback invoking h on its target. Unlike a registry, the
// callback holds the target strongly and accepts function literals. Bound
// reports shape errors and ErrNilTarget the way Add does.
func (h Handler) Bound() (func(sender any, args EventArgs) error, error) {
	if h.IsZero() {
		return func(any, EventArgs) error { return nil }, nil
	}
	if err := validateShape(reflect.TypeOf(h.fn), h.receiver); err != nil {
		return nil, err
	}
	if h.receiver != nil && h.target == nil {
		return nil, ErrNilTarget
	}
	var call thunk
	if h.compile != nil {
		call = h.compile()
	} else {
		call = reflectThunk(reflect.ValueOf(h.fn), h.receiver != nil)
	}
	target := h.target
	return func(sender any, args EventArgs) error {
		return call(target, sender, args)
	}, nil
}

// methodKey identifies the function a registration invokes.
type methodKey struct {
	code uintptr
	typ  reflect.Type
}

func (h Handler) key() (methodKey, bool) {
	v := reflect.ValueOf(h.fn)
	if v.Kind() != reflect.Func {
		return methodKey{}, false
	}
	return methodKey{code: v.Pointer(), typ: v.Type()}, true
}

// validate runs the registration checks shared by every registry.
func (h Handler) validate() error {
	if err := validateShape(reflect.TypeOf(h.fn), h.receiver); err != nil {
		return err
	}
	if name := h.Name(); isCompilerGenerated(name) {
		return &ClosureCaptureError{Func: name}
	}
	if h.receiver != nil && h.target == nil {
		return ErrNilTarget
	}
	return nil
}

func isNilFunc(fn any) bool {
	if fn == nil {
		return true
	}
	v := reflect.ValueOf(fn)
	return v.Kind() == reflect.Func && v.IsNil()
}

func funcName(pc uintptr) string {
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return ""
}

// weakTarget is a non-owning handle to a subscriber.
type weakTarget interface {
	// value returns the subscriber, or nil once it has been reclaimed.
	value() any
}

type weakRef[T any] struct {
	p weak.Pointer[T]
}

func makeWeak[T any](target *T) weakTarget {
	return weakRef[T]{p: weak.Make(target)}
}

func (w weakRef[T]) value() any {
	if v := w.p.Value(); v != nil {
		return v
	}
	return nil
}
