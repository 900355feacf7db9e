package weakevent

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrShape is wrapped by every ShapeError.
	ErrShape = errors.New("weakevent: invalid handler shape")

	// ErrClosureCapture is wrapped by every ClosureCaptureError.
	ErrClosureCapture = errors.New("weakevent: cannot create weak event to anonymous function or method value")

	// ErrTypeMismatch is wrapped by every TypeMismatchError.
	ErrTypeMismatch = errors.New("weakevent: event args type mismatch")

	// ErrNilTarget is returned when a method handler is registered without a receiver.
	ErrNilTarget = errors.New("weakevent: method handler has nil target")
)

// ShapeError reports a handler function type that does not satisfy the
// func(sender any, args E) contract, where E implements EventArgs.
type ShapeError struct {
	Type   reflect.Type
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("weakevent: handler type %v: %s", e.Type, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// ClosureCaptureError indicates the handler is a function literal, a method
// value or a function built by reflect.MakeFunc. Such a function is reachable only through itself, so a weak reference
// to it would be reclaimed almost immediately, while a method value also pins
// its receiver.
type ClosureCaptureError struct {
	Func string
}

func (e *ClosureCaptureError) Error() string {
	return fmt.Sprintf("%s: %s", ErrClosureCapture.Error(), e.Func)
}

func (e *ClosureCaptureError) Unwrap() error { return ErrClosureCapture }

// TypeMismatchError is returned by Raise when the event args cannot be passed
// to a subscribed handler's declared parameter type.
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("weakevent: handler expects %v, got %v", e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func IsShapeError(err error) bool {
	var e *ShapeError
	return errors.As(err, &e)
}

func IsClosureCaptureError(err error) bool {
	var e *ClosureCaptureError
	return errors.As(err, &e)
}

func IsTypeMismatchError(err error) bool {
	var e *TypeMismatchError
	return errors.As(err, &e)
}
