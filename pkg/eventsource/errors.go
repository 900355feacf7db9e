package eventsource

import "errors"

var (
	// ErrUnknownKind is returned for an unrecognised strategy name.
	ErrUnknownKind = errors.New("eventsource: unknown source kind")

	// ErrNotReclaimed is returned by AwaitReclaimed when the deadline passes first.
	ErrNotReclaimed = errors.New("eventsource: listener was not reclaimed")
)
