package weave

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/weave-swap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a derived address can use.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivedAddressMarker = "ProgramDerivedAddress"
)

// ErrNotDerivable is returned when the seeds derive an address that lies
// on the ed25519 curve, or when no bump value avoids the curve.
var ErrNotDerivable = errors.Register(19, "not a viable program address")

// CreateProgramAddress computes the address derived from the seeds and
// the program identity. The result must not be a valid ed25519 public
// key, so that no private key can exist for it. An error is returned if
// the digest falls on the curve.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d too long", i)
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write([]byte(derivedAddressMarker))

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	if isOnCurve(&digest) {
		return nil, errors.Wrap(ErrNotDerivable, "derived address is a valid public key")
	}
	return Address(digest[:]), nil
}

// FindProgramAddress searches for the first bump, counting down from 255,
// that together with the seeds derives an address off the curve. It
// returns the address and the bump, which can be cached and later used
// with CreateProgramAddress to re-derive the same address.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !ErrNotDerivable.Is(err) {
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(ErrNotDerivable, "no bump found")
}

// isOnCurve returns true if the bytes decode to a point of the ed25519
// curve.
func isOnCurve(b *[32]byte) bool {
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(b)
}
