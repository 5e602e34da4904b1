package escrow

import (
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestDeriveAuthority(t *testing.T) {
	maker := weavetest.RandomAddr(t)

	a1, bump1, err := DeriveAuthority(ProgramID, maker, 1)
	assert.Nil(t, err)
	a2, bump2, err := DeriveAuthority(ProgramID, maker, 1)
	assert.Nil(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, bump1, bump2)

	// Cached bump gives the same address without a search.
	r := &Record{Seed: 1, Maker: maker, Bump: bump1}
	a3, err := authorityWithBump(ProgramID, r)
	assert.Nil(t, err)
	assert.Equal(t, a1, a3)

	other, _, err := DeriveAuthority(ProgramID, maker, 2)
	assert.Nil(t, err)
	if other.Equals(a1) {
		t.Fatal("seeds must produce distinct addresses")
	}
	other, _, err = DeriveAuthority(ProgramID, weavetest.RandomAddr(t), 1)
	assert.Nil(t, err)
	if other.Equals(a1) {
		t.Fatal("makers must produce distinct addresses")
	}
	other, _, err = DeriveAuthority(weavetest.RandomAddr(t), maker, 1)
	assert.Nil(t, err)
	if other.Equals(a1) {
		t.Fatal("programs must produce distinct addresses")
	}
}

func TestDeriveAuthorityInvalidMaker(t *testing.T) {
	_, _, err := DeriveAuthority(ProgramID, weave.Address{1, 2, 3}, 1)
	if err == nil {
		t.Fatal("want error")
	}
}

func TestStoragePool(t *testing.T) {
	p1, err := StoragePool(ProgramID)
	assert.Nil(t, err)
	p2, err := StoragePool(ProgramID)
	assert.Nil(t, err)
	assert.Equal(t, p1, p2)
	assert.Nil(t, p1.Validate())
}
