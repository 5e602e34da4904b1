package weavetest

import (
	"crypto/rand"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/store/iavl"
)

// CommitKVStore returns an iavl store backed by a temporary directory, the
// engine the node runs on. Use it when a test must commit versions or
// reopen state. cleanup closes the store and removes its files.
func CommitKVStore(t testing.TB) (db weave.CommitKVStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "weavetest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	s := iavl.NewCommitStore(dir, "state")
	if err := s.LoadLatestVersion(); err != nil {
		os.RemoveAll(dir)
		t.Fatalf("cannot load store: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

// RandomAddr returns a random 32 byte address.
func RandomAddr(t testing.TB) weave.Address {
	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return weave.Address(raw)
}
