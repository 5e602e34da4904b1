package client

import (
	"testing"

	escrowd "github.com/iov-one/weave-swap/cmd/escrowd/app"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

func TestReader(t *testing.T) {
	const chainID = "reader-test"

	application, err := escrowd.GenerateApp("", log.NewNopLogger(), false, nil)
	assert.Nil(t, err)

	key, err := sigs.GenPrivateKey()
	assert.Nil(t, err)
	maker := key.PublicKey().Address()
	assetA, assetB := weavetest.RandomAddr(t), weavetest.RandomAddr(t)

	w := weavetest.NewWeaveRunner(t, application, chainID)
	w.InitChain(map[string]interface{}{
		"token": []token.GenesisHolding{
			{Owner: maker, Asset: assetA, Amount: 70},
			{Owner: maker, Asset: assetB, Amount: 5},
		},
	})

	r := NewReader(AppQuerier{App: application})

	nonce, err := r.Nonce(maker)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), nonce)

	tx := escrowd.NewTx(&escrow.OpenMsg{
		Maker:   maker,
		Seed:    9,
		AssetA:  assetA,
		AssetB:  assetB,
		Deposit: 60,
		Receive: 1,
	})
	sig, err := sigs.SignTx(key, tx, chainID, nonce)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	w.InBlock(func(w *weavetest.WeaveRunner) error {
		_, err := w.DeliverTx(tx)
		return err
	})

	nonce, err = r.Nonce(maker)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), nonce)

	bal, err := r.Balance(maker, assetA)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), bal)

	holdings, err := r.Holdings(maker)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(holdings))

	addr, bump, err := r.EscrowAddress(maker, 9)
	assert.Nil(t, err)
	want, wantBump, err := escrow.DeriveAuthority(escrow.ProgramID, maker, 9)
	assert.Nil(t, err)
	assert.Equal(t, want, addr)
	assert.Equal(t, wantBump, bump)

	rec, err := r.Escrow(addr)
	assert.Nil(t, err)
	assert.Equal(t, uint64(9), rec.Seed)
	assert.Equal(t, bump, rec.Bump)

	vault, err := r.Balance(addr, assetA)
	assert.Nil(t, err)
	assert.Equal(t, uint64(60), vault)

	byMaker, err := r.EscrowsByMaker(maker)
	assert.Nil(t, err)
	assert.Equal(t, map[string]*escrow.Record{addr.String(): rec}, byMaker)

	_, err = r.Escrow(weavetest.RandomAddr(t))
	assert.IsErr(t, escrow.ErrStaleEscrow, err)

	_, err = r.Models("/no/such/path", nil)
	assert.IsErr(t, errors.ErrNotFound, err)

	none, err := r.EscrowsByMaker(weavetest.RandomAddr(t))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(none))
}
