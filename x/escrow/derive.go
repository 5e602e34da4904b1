package escrow

import (
	"encoding/binary"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const (
	escrowSeedTag  = "escrow"
	storageSeedTag = "storage"
)

// ProgramID is the identity of the escrow program. Every escrow and the
// storage pool addresses are derived from it.
var ProgramID = mustParseAddress("9pdSoyn1kfAN4bD4cWFTZCu82sg44tEAdTGVtKLpUoCd")

func mustParseAddress(s string) weave.Address {
	a, err := weave.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func authoritySeeds(maker weave.Address, seed uint64) [][]byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, seed)
	return [][]byte{[]byte(escrowSeedTag), maker, raw}
}

// DeriveAuthority returns the address of the escrow opened by maker with
// given seed, together with the bump that makes it a valid derived
// address. The escrow record is stored under this address and its vault
// is owned by it.
func DeriveAuthority(program, maker weave.Address, seed uint64) (weave.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	return weave.FindProgramAddress(authoritySeeds(maker, seed), program)
}

// authorityWithBump re-derives the escrow address using the bump cached
// in the record.
func authorityWithBump(program weave.Address, r *Record) (weave.Address, error) {
	seeds := append(authoritySeeds(r.Maker, r.Seed), []byte{r.Bump})
	return weave.CreateProgramAddress(seeds, program)
}

// StoragePool returns the address holding the storage deposits of all
// open escrows.
func StoragePool(program weave.Address) (weave.Address, error) {
	addr, _, err := weave.FindProgramAddress([][]byte{[]byte(storageSeedTag)}, program)
	return addr, err
}
