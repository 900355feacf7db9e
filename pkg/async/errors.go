package async

import "errors"

// ErrPanic wraps a value recovered from a panicking function.
var ErrPanic = errors.New("async: function panicked")
