package dvk

import "errors"

var (
	// ErrMalformed reports a DVK file that could not be decoded.
	ErrMalformed = errors.New("malformed dvk file")
	// ErrIncomplete reports a record missing a field required for writing.
	ErrIncomplete = errors.New("dvk record incomplete")
)
