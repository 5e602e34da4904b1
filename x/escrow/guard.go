package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/token"
)

// SendGuard rejects plain token transfers into open escrows and into the
// storage pool. Their holdings move only through the escrow handlers, so
// a vault always holds exactly the deposit.
type SendGuard struct {
	program weave.Address
	bucket  Bucket
}

var _ token.Guard = SendGuard{}

// NewSendGuard returns the guard for escrows of the program.
func NewSendGuard(program weave.Address) SendGuard {
	return SendGuard{program: program, bucket: NewBucket()}
}

// Accepts fails with ErrInput for escrow and pool addresses.
func (g SendGuard) Accepts(db weave.ReadOnlyKVStore, dst weave.Address) error {
	pool, err := StoragePool(g.program)
	if err != nil {
		return errors.Wrap(err, "storage pool address")
	}
	if pool.Equals(dst) {
		return errors.Wrap(errors.ErrInput, "storage pool accepts no transfers")
	}
	ok, err := g.bucket.Has(db, dst)
	if err != nil {
		return errors.Wrap(err, "cannot check escrow")
	}
	if ok {
		return errors.Wrapf(errors.ErrInput, "escrow %s accepts no transfers", dst)
	}
	return nil
}
