package weave_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

var program = weave.Address(bytes.Repeat([]byte{0x42}, weave.AddressLength))

func seedsFor(maker weave.Address, seed uint64) [][]byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, seed)
	return [][]byte{[]byte("escrow"), maker, raw}
}

func TestFindProgramAddressIsDeterministic(t *testing.T) {
	maker := weave.NewCondition("sigs", "ed25519", []byte("maker")).Address()

	addr1, bump1, err := weave.FindProgramAddress(seedsFor(maker, 1), program)
	require.NoError(t, err)
	addr2, bump2, err := weave.FindProgramAddress(seedsFor(maker, 1), program)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
	assert.Len(t, addr1, weave.AddressLength)

	// The cached bump re-derives the very same address.
	again, err := weave.CreateProgramAddress(append(seedsFor(maker, 1), []byte{bump1}), program)
	require.NoError(t, err)
	assert.Equal(t, addr1, again)
}

func TestFindProgramAddressIsUnique(t *testing.T) {
	maker := weave.NewCondition("sigs", "ed25519", []byte("maker")).Address()
	other := weave.NewCondition("sigs", "ed25519", []byte("other")).Address()

	seen := make(map[string]struct{})
	for _, m := range []weave.Address{maker, other} {
		for seed := uint64(0); seed < 20; seed++ {
			addr, _, err := weave.FindProgramAddress(seedsFor(m, seed), program)
			require.NoError(t, err)
			if _, ok := seen[string(addr)]; ok {
				t.Fatalf("address collision for %s seed %d", m, seed)
			}
			seen[string(addr)] = struct{}{}
		}
	}

	otherProgram := weave.Address(bytes.Repeat([]byte{0x43}, weave.AddressLength))
	a, _, err := weave.FindProgramAddress(seedsFor(maker, 1), program)
	require.NoError(t, err)
	b, _, err := weave.FindProgramAddress(seedsFor(maker, 1), otherProgram)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDerivedAddressIsOffCurve(t *testing.T) {
	maker := weave.NewCondition("sigs", "ed25519", []byte("maker")).Address()
	for seed := uint64(0); seed < 50; seed++ {
		addr, _, err := weave.FindProgramAddress(seedsFor(maker, seed), program)
		require.NoError(t, err)

		var raw [32]byte
		copy(raw[:], addr)
		var p edwards25519.ExtendedGroupElement
		assert.False(t, p.FromBytes(&raw), "seed %d derived a curve point", seed)
	}
}

func TestCreateProgramAddressRejectsCurvePoints(t *testing.T) {
	// A public key is a curve point, and the derivation never returns
	// one. Search bumps and make sure every accepted one is off curve and
	// every rejected one is reported as not derivable.
	pub, _, err := ed25519.GenerateKey(bytes.NewReader(bytes.Repeat([]byte{1}, 64)))
	require.NoError(t, err)
	var raw [32]byte
	copy(raw[:], pub)
	var p edwards25519.ExtendedGroupElement
	require.True(t, p.FromBytes(&raw))

	var rejected int
	for bump := 0; bump < 256; bump++ {
		_, err := weave.CreateProgramAddress([][]byte{[]byte("probe"), {uint8(bump)}}, program)
		if err != nil {
			require.True(t, weave.ErrNotDerivable.Is(err))
			rejected++
		}
	}
	// Roughly half of random 32 byte strings decode as a point.
	assert.True(t, rejected > 0 && rejected < 256, "rejected %d", rejected)
}

func TestCreateProgramAddressSeedLimits(t *testing.T) {
	_, err := weave.CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, weave.MaxSeedLength+1)}, program)
	assert.True(t, errors.ErrInput.Is(err))

	many := make([][]byte, weave.MaxSeeds+1)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	_, err = weave.CreateProgramAddress(many, program)
	assert.True(t, errors.ErrInput.Is(err))

	_, _, err = weave.FindProgramAddress(many[:weave.MaxSeeds], program)
	assert.True(t, errors.ErrInput.Is(err))
}
