package sigs

import (
	"crypto/rand"
	"io"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	extension   = "sigs"
	typeEd25519 = "ed25519"
)

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Validate returns an error if the key has the wrong size.
func (p PublicKey) Validate() error {
	if len(p) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p))
	}
	return nil
}

// Condition returns the permission represented by this key.
func (p PublicKey) Condition() weave.Condition {
	return weave.NewCondition(extension, typeEd25519, p)
}

// Address returns the address of the key condition.
func (p PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

// Verify returns true if sig is a valid signature of msg made with the
// private key of p.
func (p PublicKey) Verify(msg, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), msg, sig)
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// GenPrivateKey returns a new random private key.
func GenPrivateKey() (PrivateKey, error) {
	return genPrivateKey(rand.Reader)
}

func genPrivateKey(r io.Reader) (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate key")
	}
	return PrivateKey(priv), nil
}

// PrivateKeyFromSeed returns the private key computed from a 32 byte seed.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// Sign returns the signature of msg.
func (k PrivateKey) Sign(msg []byte) ([]byte, error) {
	if len(k) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key length %d", len(k))
	}
	return ed25519.Sign(ed25519.PrivateKey(k), msg), nil
}

// PublicKey returns the public part of the key.
func (k PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(k).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}
