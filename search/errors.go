package search

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is;
// the wrapped message carries the offending token, id or index.
var (
	// ErrInvalidArgument reports malformed input: a negative or duplicate
	// document id, a token with control characters, or a malformed query word.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports a lookup of an unknown document id or index.
	ErrOutOfRange = errors.New("out of range")
)
