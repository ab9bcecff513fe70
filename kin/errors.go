package kin

import "errors"

var (
	// ErrInvalidDescriptor reports a malformed member descriptor or an
	// attempt to redefine a non-configurable member.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrReadOnlyProperty reports an assignment to a non-writable member.
	ErrReadOnlyProperty = errors.New("read-only property")

	// ErrNotCallable reports a call or instantiation on a value with no
	// call implementation.
	ErrNotCallable = errors.New("not callable")
)
