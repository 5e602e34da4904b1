package sigs

import "github.com/iov-one/weave-swap/errors"

// ErrInvalidSequence is returned when the signature sequence does not
// match the next expected value.
var ErrInvalidSequence = errors.Register(20, "invalid sequence number")
