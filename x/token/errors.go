package token

import "github.com/iov-one/weave-swap/errors"

// ErrInsufficientFunds is returned when a holding balance cannot cover a
// debit.
var ErrInsufficientFunds = errors.Register(30, "insufficient funds")
