package token

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// Controller is the asset transfer primitive used by handlers of this and
// other extensions.
type Controller interface {
	// Balance returns the amount held, zero if the holding does not exist.
	Balance(db weave.ReadOnlyKVStore, owner, asset weave.Address) (uint64, error)
	// Exists returns true if the holding exists.
	Exists(db weave.ReadOnlyKVStore, owner, asset weave.Address) (bool, error)
	// Open creates an empty holding. ErrDuplicate if it exists.
	Open(db weave.KVStore, owner, asset weave.Address) error
	// Move debits src and credits dst, creating dst if needed. Moving
	// zero is a no-op.
	Move(db weave.KVStore, src, dst, asset weave.Address, amount uint64) error
	// Issue credits dst with newly created units.
	Issue(db weave.KVStore, dst, asset weave.Address, amount uint64) error
	// Close removes a holding with zero balance.
	Close(db weave.KVStore, owner, asset weave.Address) error
	// Holdings returns all holdings of the owner.
	Holdings(db weave.ReadOnlyKVStore, owner weave.Address) ([]*Holding, error)
}

// BaseController is the Controller backed by the holding Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, owner, asset weave.Address) (uint64, error) {
	h, err := c.bucket.GetHolding(db, owner, asset)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load holding")
	}
	if h == nil {
		return 0, nil
	}
	return h.Amount, nil
}

func (c BaseController) Exists(db weave.ReadOnlyKVStore, owner, asset weave.Address) (bool, error) {
	return c.bucket.Has(db, HoldingKey(owner, asset))
}

func (c BaseController) Open(db weave.KVStore, owner, asset weave.Address) error {
	ok, err := c.Exists(db, owner, asset)
	if err != nil {
		return errors.Wrap(err, "cannot load holding")
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "holding of %s by %s", asset, owner)
	}
	return c.bucket.SaveHolding(db, &Holding{Owner: owner, Asset: asset})
}

func (c BaseController) Move(db weave.KVStore, src, dst, asset weave.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	from, err := c.bucket.GetHolding(db, src, asset)
	if err != nil {
		return errors.Wrap(err, "cannot load source holding")
	}
	if from == nil {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds no %s", src, asset)
	}
	if from.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, need %d", src, from.Amount, amount)
	}
	if src.Equals(dst) {
		return nil
	}

	to, err := c.bucket.GetHolding(db, dst, asset)
	if err != nil {
		return errors.Wrap(err, "cannot load destination holding")
	}
	if to == nil {
		to = &Holding{Owner: dst, Asset: asset}
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	from.Amount -= amount
	to.Amount += amount
	if err := c.bucket.SaveHolding(db, from); err != nil {
		return errors.Wrap(err, "cannot save source holding")
	}
	if err := c.bucket.SaveHolding(db, to); err != nil {
		return errors.Wrap(err, "cannot save destination holding")
	}
	return nil
}

func (c BaseController) Issue(db weave.KVStore, dst, asset weave.Address, amount uint64) error {
	to, err := c.bucket.GetHolding(db, dst, asset)
	if err != nil {
		return errors.Wrap(err, "cannot load holding")
	}
	if to == nil {
		to = &Holding{Owner: dst, Asset: asset}
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	to.Amount += amount
	return c.bucket.SaveHolding(db, to)
}

func (c BaseController) Close(db weave.KVStore, owner, asset weave.Address) error {
	h, err := c.bucket.GetHolding(db, owner, asset)
	if err != nil {
		return errors.Wrap(err, "cannot load holding")
	}
	if h == nil {
		return errors.Wrapf(errors.ErrNotFound, "holding of %s by %s", asset, owner)
	}
	if h.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "holding balance is %d", h.Amount)
	}
	return c.bucket.Delete(db, HoldingKey(owner, asset))
}

func (c BaseController) Holdings(db weave.ReadOnlyKVStore, owner weave.Address) ([]*Holding, error) {
	objs, err := c.bucket.GetIndexed(db, "owner", owner)
	if err != nil {
		return nil, err
	}
	res := make([]*Holding, len(objs))
	for i, o := range objs {
		res[i] = AsHolding(o)
	}
	return res, nil
}
