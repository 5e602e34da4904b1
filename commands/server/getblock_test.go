package server

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestOpenDb(t *testing.T) {
	dir, err := ioutil.TempDir("", "getblock")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	_, err = openDb(filepath.Join(dir, "blockstore"))
	assert.IsErr(t, errors.ErrInput, err)

	db, err := openDb(filepath.Join(dir, "blockstore.db") + "/")
	assert.Nil(t, err)
	db.Close()

	info, err := os.Stat(filepath.Join(dir, "blockstore.db"))
	assert.Nil(t, err)
	assert.Equal(t, true, info.IsDir())
}

func TestPrintMissingBlock(t *testing.T) {
	store := blockchain.NewBlockStore(dbm.NewMemDB())
	var out bytes.Buffer
	err := printBlock(&out, store, 3)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, 0, out.Len())
}
