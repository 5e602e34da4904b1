package escrow

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
)

const (
	// BucketName is where escrow records are stored.
	BucketName = "escrow"

	discriminatorSize = 8

	// RecordSize is the length of a serialized record including the type
	// discriminator.
	RecordSize = discriminatorSize + 8 + 3*weave.AddressLength + 8 + 1
)

// recordDiscriminator prefixes every serialized record.
var recordDiscriminator = func() []byte {
	h := sha256.Sum256([]byte("account:Escrow"))
	return h[:discriminatorSize]
}()

// Record describes a single open trade offer. A record is never modified
// once created.
type Record struct {
	// Seed allows one maker to hold many escrows at once.
	Seed uint64 `json:"seed"`
	// Maker opened the escrow and is the only one allowed to cancel it.
	Maker weave.Address `json:"maker"`
	// AssetA is deposited in the vault.
	AssetA weave.Address `json:"asset_a"`
	// AssetB is requested from the taker.
	AssetB weave.Address `json:"asset_b"`
	// Receive is the amount of AssetB the maker expects.
	Receive uint64 `json:"receive"`
	// Bump completes the derivation of the escrow address.
	Bump uint8 `json:"bump"`
}

var _ orm.Model = (*Record)(nil)

// Validate checks that all addresses are well formed.
func (r *Record) Validate() error {
	if err := r.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := r.AssetA.Validate(); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := r.AssetB.Validate(); err != nil {
		return errors.Wrap(err, "asset b")
	}
	return nil
}

// Marshal serializes the record using a fixed size little endian layout.
func (r *Record) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, RecordSize)
	raw = append(raw, recordDiscriminator...)
	raw = appendUint64(raw, r.Seed)
	raw = append(raw, r.Maker...)
	raw = append(raw, r.AssetA...)
	raw = append(raw, r.AssetB...)
	raw = appendUint64(raw, r.Receive)
	raw = append(raw, r.Bump)
	return raw, nil
}

// Unmarshal reads the layout written by Marshal.
func (r *Record) Unmarshal(raw []byte) error {
	if len(raw) != RecordSize {
		return errors.Wrapf(errors.ErrModel, "record size %d", len(raw))
	}
	if string(raw[:discriminatorSize]) != string(recordDiscriminator) {
		return errors.Wrap(errors.ErrModel, "not an escrow record")
	}
	raw = raw[discriminatorSize:]
	r.Seed = binary.LittleEndian.Uint64(raw)
	raw = raw[8:]
	r.Maker, raw = readAddress(raw)
	r.AssetA, raw = readAddress(raw)
	r.AssetB, raw = readAddress(raw)
	r.Receive = binary.LittleEndian.Uint64(raw)
	r.Bump = raw[8]
	return nil
}

func appendUint64(b []byte, v uint64) []byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], v)
	return append(b, raw[:]...)
}

func readAddress(raw []byte) (weave.Address, []byte) {
	return weave.Address(raw[:weave.AddressLength]).Clone(), raw[weave.AddressLength:]
}

// AsRecord casts an object loaded from the Bucket.
func AsRecord(obj orm.Object) *Record {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Record)
}

// Bucket stores escrow records under their derived address, indexed by
// maker.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the escrow record bucket.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Record{})).
		WithIndex("maker", makerIndexer, false)
	return Bucket{Bucket: b}
}

func makerIndexer(obj orm.Object) ([]byte, error) {
	r := AsRecord(obj)
	if r == nil {
		return nil, errors.Wrapf(errors.ErrType, "record expected, got %T", obj.Value())
	}
	return r.Maker, nil
}

// GetRecord returns the record stored under the escrow address, or nil.
func (b Bucket) GetRecord(db weave.ReadOnlyKVStore, escrow weave.Address) (*Record, error) {
	obj, err := b.Get(db, escrow)
	if err != nil {
		return nil, err
	}
	return AsRecord(obj), nil
}

// ByMaker returns all open escrows of the maker.
func (b Bucket) ByMaker(db weave.ReadOnlyKVStore, maker weave.Address) ([]orm.Object, error) {
	return b.GetIndexed(db, "maker", maker)
}
