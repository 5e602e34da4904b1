package escrow

import "github.com/iov-one/weave-swap/errors"

var (
	// ErrStaleEscrow is returned when the referenced escrow was already
	// fulfilled or cancelled.
	ErrStaleEscrow = errors.Register(40, "stale escrow")

	// ErrAccountCreation is returned when the escrow record or vault
	// cannot be created.
	ErrAccountCreation = errors.Register(41, "account creation failure")
)
