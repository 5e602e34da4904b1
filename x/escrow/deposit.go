package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
	"github.com/iov-one/weave-swap/x/token"
)

const depositBucketName = "escrow_dep"

// StorageDeposit remembers what the maker paid when an escrow was opened,
// so that the exact amount is refunded even if the configuration changes
// in the meantime.
type StorageDeposit struct {
	Asset  weave.Address `json:"asset"`
	Amount uint64        `json:"amount"`
}

var _ orm.Model = (*StorageDeposit)(nil)

func (d *StorageDeposit) Validate() error {
	if d.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	return d.Asset.Validate()
}

func (d *StorageDeposit) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *StorageDeposit) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, d)
}

// depositKeeper moves storage deposits between makers and the storage
// pool.
type depositKeeper struct {
	bucket orm.Bucket
	pool   weave.Address
	bank   token.Controller
}

func newDepositKeeper(program weave.Address, bank token.Controller) (depositKeeper, error) {
	pool, err := StoragePool(program)
	if err != nil {
		return depositKeeper{}, errors.Wrap(err, "storage pool address")
	}
	return depositKeeper{
		bucket: orm.NewBucket(depositBucketName, orm.NewSimpleObj(nil, &StorageDeposit{})),
		pool:   pool,
		bank:   bank,
	}, nil
}

// Charge takes the configured storage deposit from the maker.
func (k depositKeeper) Charge(db weave.KVStore, conf Configuration, escrow, maker weave.Address) error {
	if conf.StorageDeposit == 0 {
		return nil
	}
	if err := k.bank.Move(db, maker, k.pool, conf.NativeAsset, conf.StorageDeposit); err != nil {
		return errors.Wrapf(ErrAccountCreation, "cannot pay storage deposit: %s", err)
	}
	dep := &StorageDeposit{Asset: conf.NativeAsset, Amount: conf.StorageDeposit}
	if err := k.bucket.Save(db, orm.NewSimpleObj(escrow, dep)); err != nil {
		return errors.Wrap(err, "cannot save storage deposit")
	}
	return nil
}

// Refund returns the deposit paid for the escrow to the maker.
func (k depositKeeper) Refund(db weave.KVStore, escrow, maker weave.Address) error {
	obj, err := k.bucket.Get(db, escrow)
	if err != nil {
		return errors.Wrap(err, "cannot load storage deposit")
	}
	if obj == nil {
		return nil
	}
	dep := obj.Value().(*StorageDeposit)
	if err := k.bank.Move(db, k.pool, maker, dep.Asset, dep.Amount); err != nil {
		return errors.Wrap(err, "cannot refund storage deposit")
	}
	return k.bucket.Delete(db, escrow)
}
