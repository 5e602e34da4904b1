package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

// unpackTx reads a single transaction written by a command.
func unpackTx(t testing.TB, raw []byte) *escrowd.Tx {
	t.Helper()
	tx, n, err := readTx(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("cannot read transaction: %s", err)
	}
	assert.Equal(t, len(raw), n)
	return tx
}

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "escrowcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// writeKey generates a private key file from a fixed seed.
func writeKey(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "priv.key")
	args := []string{"-key", path, "-seed", "000102030405060708090a0b0c0d0e0f"}
	if err := cmdKeygen(nil, ioutil.Discard, args); err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return path
}
