package escrow

import (
	"encoding/binary"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// RegisterQuery exposes the records under "/escrows", the maker index
// under "/escrows/maker" and the address derivation under "/escrows/addr".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
	qr.Register("/escrows/addr", addressQuery{program: ProgramID})
}

// addressQuery derives the escrow address of a maker and seed. The query
// data is the maker address followed by the little endian seed. The
// result key is the escrow address and the value is the single bump byte.
type addressQuery struct {
	program weave.Address
}

func (q addressQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mode %q", mod)
	}
	maker, seed, err := ParseAddressQuery(data)
	if err != nil {
		return nil, err
	}
	escrow, bump, err := DeriveAuthority(q.program, maker, seed)
	if err != nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(escrow, []byte{bump})}, nil
}

// AddressQuery builds the data of an "/escrows/addr" query.
func AddressQuery(maker weave.Address, seed uint64) []byte {
	raw := make([]byte, weave.AddressLength+8)
	copy(raw, maker)
	binary.LittleEndian.PutUint64(raw[weave.AddressLength:], seed)
	return raw
}

// ParseAddressQuery reads the data written by AddressQuery.
func ParseAddressQuery(data []byte) (weave.Address, uint64, error) {
	if len(data) != weave.AddressLength+8 {
		return nil, 0, errors.Wrapf(errors.ErrInput, "query data length %d", len(data))
	}
	maker := weave.Address(data[:weave.AddressLength]).Clone()
	return maker, binary.LittleEndian.Uint64(data[weave.AddressLength:]), nil
}
