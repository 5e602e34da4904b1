package sigs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/weave-swap/errors"
)

func TestKeySignVerify(t *testing.T) {
	priv, err := genPrivateKey(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	require.NoError(t, err)
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("swap")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("swat"), sig))
	assert.False(t, PublicKey("short").Verify(msg, sig))

	ext, typ, data, err := pub.Condition().Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte(pub), data)
	assert.Len(t, pub.Address(), 32)
}

func TestPrivateKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{1}, 32)
	a, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	b, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	_, err = PrivateKeyFromSeed([]byte{1, 2})
	assert.True(t, errors.ErrInput.Is(err))
}
