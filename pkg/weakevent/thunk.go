package weakevent

import (
	"reflect"
	"sync"
)

// thunk invokes one subscribed function with the target already resolved.
// target is nil for static handlers.
type thunk func(target, sender any, args EventArgs) error

// thunks is shared by every FastEvent for the life of the process. Entries
// are keyed by method descriptor and by whether the handler was built with a
// typed constructor, never evicted, and reference no subscriber.
var thunks sync.Map // thunkKey -> thunk

type thunkKey struct {
	methodKey
	typed bool
}

func loadThunk(key methodKey, h Handler) thunk {
	tk := thunkKey{methodKey: key, typed: h.compile != nil}
	if v, ok := thunks.Load(tk); ok {
		return v.(thunk)
	}
	var t thunk
	if h.compile != nil {
		t = h.compile()
	} else {
		t = reflectThunk(reflect.ValueOf(h.fn), h.receiver != nil)
	}
	v, _ := thunks.LoadOrStore(tk, t)
	return v.(thunk)
}

// ThunkCacheLen returns the number of compiled thunks in the process-wide cache.
func ThunkCacheLen() int {
	n := 0
	thunks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func methodThunk[T any, E EventArgs](method func(*T, any, E)) thunk {
	return func(target, sender any, args EventArgs) error {
		e, err := downcast[E](args)
		if err != nil {
			return err
		}
		method(target.(*T), sender, e)
		return nil
	}
}

func staticThunk[E EventArgs](fn func(any, E)) thunk {
	return func(_, sender any, args EventArgs) error {
		e, err := downcast[E](args)
		if err != nil {
			return err
		}
		fn(sender, e)
		return nil
	}
}

// downcast converts the bus-level args to the type a handler declared.
// Args of any other type yield a TypeMismatchError; nil args become the zero
// value of E.
func downcast[E EventArgs](args EventArgs) (E, error) {
	var zero E
	if args == nil {
		return zero, nil
	}
	e, ok := args.(E)
	if !ok {
		return zero, &TypeMismatchError{Want: reflect.TypeFor[E](), Got: reflect.TypeOf(args)}
	}
	return e, nil
}

// reflectThunk adapts handlers registered through Method or Func. The
// parameter type is looked up once, here, rather than on every call.
func reflectThunk(fn reflect.Value, method bool) thunk {
	ft := fn.Type()
	want := ft.In(ft.NumIn() - 1)
	return func(target, sender any, args EventArgs) error {
		av, err := argValue(want, args)
		if err != nil {
			return err
		}
		fn.Call(callArgs(method, target, sender, av))
		return nil
	}
}

func argValue(want reflect.Type, args EventArgs) (reflect.Value, error) {
	if args == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(args)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, &TypeMismatchError{Want: want, Got: v.Type()}
	}
	return v, nil
}

func callArgs(method bool, target, sender any, args reflect.Value) []reflect.Value {
	in := make([]reflect.Value, 0, 3)
	if method {
		in = append(in, reflect.ValueOf(target))
	}
	// Going through a pointer keeps the any type, so a nil sender stays valid.
	return append(in, reflect.ValueOf(&sender).Elem(), args)
}
