package token

import (
	"encoding/binary"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
)

// HoldingSize is the length of a serialized holding.
const HoldingSize = 2*weave.AddressLength + 8

// BucketName is where holdings are stored.
const BucketName = "holding"

// Holding is the balance of a single asset owned by an address.
type Holding struct {
	Owner  weave.Address `json:"owner"`
	Asset  weave.Address `json:"asset"`
	Amount uint64        `json:"amount"`
}

var _ orm.Model = (*Holding)(nil)

// Validate ensures both identifiers are well formed.
func (h *Holding) Validate() error {
	if err := h.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := h.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	return nil
}

// Marshal writes owner, asset and the little endian amount.
func (h *Holding) Marshal() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, HoldingSize)
	copy(raw, h.Owner)
	copy(raw[weave.AddressLength:], h.Asset)
	binary.LittleEndian.PutUint64(raw[2*weave.AddressLength:], h.Amount)
	return raw, nil
}

// Unmarshal reads the layout written by Marshal.
func (h *Holding) Unmarshal(raw []byte) error {
	if len(raw) != HoldingSize {
		return errors.Wrapf(errors.ErrModel, "holding size %d", len(raw))
	}
	h.Owner = weave.Address(raw[:weave.AddressLength]).Clone()
	h.Asset = weave.Address(raw[weave.AddressLength : 2*weave.AddressLength]).Clone()
	h.Amount = binary.LittleEndian.Uint64(raw[2*weave.AddressLength:])
	return nil
}

// HoldingKey returns the storage key of the owner's holding of asset.
func HoldingKey(owner, asset weave.Address) []byte {
	key := make([]byte, 0, len(owner)+len(asset))
	key = append(key, owner...)
	return append(key, asset...)
}

// NewHolding returns an object with an empty balance.
func NewHolding(owner, asset weave.Address) orm.Object {
	return orm.NewSimpleObj(HoldingKey(owner, asset), &Holding{Owner: owner, Asset: asset})
}

// AsHolding casts an object loaded from the Bucket.
func AsHolding(obj orm.Object) *Holding {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Holding)
}

// Bucket stores holdings, indexed by owner.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the holding bucket.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, NewHolding(nil, nil)).
		WithIndex("owner", ownerIndexer, false)
	return Bucket{Bucket: b}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	h := AsHolding(obj)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrType, "holding expected, got %T", obj.Value())
	}
	return h.Owner, nil
}

// GetHolding returns the holding or nil if it does not exist.
func (b Bucket) GetHolding(db weave.ReadOnlyKVStore, owner, asset weave.Address) (*Holding, error) {
	obj, err := b.Get(db, HoldingKey(owner, asset))
	if err != nil {
		return nil, err
	}
	return AsHolding(obj), nil
}

// SaveHolding persists h.
func (b Bucket) SaveHolding(db weave.KVStore, h *Holding) error {
	return b.Save(db, orm.NewSimpleObj(HoldingKey(h.Owner, h.Asset), h))
}
