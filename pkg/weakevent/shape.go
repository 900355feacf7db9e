package weakevent

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
)

var (
	senderType    = reflect.TypeFor[any]()
	eventArgsType = reflect.TypeFor[EventArgs]()

	// shapes caches the verdict for every handler type seen so far. A type is
	// inspected once; later registrations get the cached result.
	shapes sync.Map // shapeKey -> error
)

// tinySize is the runtime's tiny allocator block size. Pointer-free objects
// smaller than this share a block, and a weak pointer to one of them stays
// valid while any neighbour in the block is alive.
const tinySize = 16

type shapeKey struct {
	fn       reflect.Type
	receiver reflect.Type
}

// validateShape checks that fn is func(receiver, any, E) for method handlers
// or func(any, E) otherwise, with E implementing EventArgs and no results.
func validateShape(fn, receiver reflect.Type) error {
	key := shapeKey{fn: fn, receiver: receiver}
	if v, ok := shapes.Load(key); ok {
		err, _ := v.(error)
		return err
	}
	v, _ := shapes.LoadOrStore(key, checkShape(fn, receiver))
	err, _ := v.(error)
	return err
}

func checkShape(fn, receiver reflect.Type) error {
	if fn == nil || fn.Kind() != reflect.Func {
		return &ShapeError{Type: fn, Reason: "not a function"}
	}
	if fn.IsVariadic() {
		return &ShapeError{Type: fn, Reason: "variadic handlers are not supported"}
	}

	first := 0
	if receiver != nil {
		if fn.NumIn() == 0 || fn.In(0) != receiver {
			return &ShapeError{Type: fn, Reason: fmt.Sprintf("first parameter must be the receiver %v", receiver)}
		}
		elem := receiver.Elem()
		if elem.Size() == 0 {
			return &ShapeError{Type: fn, Reason: fmt.Sprintf("receiver type %v is zero-sized and cannot be referenced weakly", elem)}
		}
		if elem.Size() < tinySize && !hasPointers(elem) {
			return &ShapeError{Type: fn, Reason: fmt.Sprintf("receiver type %v is a tiny pointer-free allocation and cannot be referenced weakly", elem)}
		}
		first = 1
	}

	if fn.NumIn()-first != 2 || fn.NumOut() != 0 {
		return &ShapeError{Type: fn, Reason: "not a 2-argument void handler"}
	}
	if fn.In(first) != senderType {
		return &ShapeError{Type: fn, Reason: "sender parameter must be of type any"}
	}
	if !fn.In(first + 1).Implements(eventArgsType) {
		return &ShapeError{Type: fn, Reason: "second parameter not derived from EventArgs"}
	}
	return nil
}

// generatedName matches symbols of functions that carry their own state:
// function literals (pkg.Outer.func1, pkg.Outer.func1.2), method values
// (pkg.(*T).M-fm) and reflect.MakeFunc results (reflect.makeFuncStub).
var generatedName = regexp.MustCompile(`\.func\d+(\.\d+)*$|-fm$|^reflect\.makeFuncStub$`)

func isCompilerGenerated(name string) bool {
	return generatedName.MatchString(name)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
