package escrowd

import (
	"crypto/sha256"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/commands"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
	amino "github.com/tendermint/go-amino"
)

// Codec returns the codec used for transactions.
func Codec() *amino.Codec {
	return cdc
}

func exampleAddr(name string) weave.Address {
	h := sha256.Sum256([]byte(name))
	return weave.Address(h[:])
}

// Examples generates some example structs to dump out with testgen.
// All of them are deterministic.
func Examples() ([]commands.Example, error) {
	seed := sha256.Sum256([]byte("escrowd example key"))
	key, err := sigs.PrivateKeyFromSeed(seed[:])
	if err != nil {
		return nil, err
	}
	maker := key.PublicKey().Address()
	assetA, assetB := exampleAddr("asset a"), exampleAddr("asset b")

	open := &escrow.OpenMsg{
		Maker:   maker,
		Seed:    1,
		AssetA:  assetA,
		AssetB:  assetB,
		Deposit: 100,
		Receive: 50,
	}
	escrowAddr, _, err := escrow.DeriveAuthority(escrow.ProgramID, maker, open.Seed)
	if err != nil {
		return nil, err
	}
	fulfill := &escrow.FulfillMsg{Escrow: escrowAddr, Taker: exampleAddr("taker")}
	cancel := &escrow.CancelMsg{Escrow: escrowAddr}
	send := &token.SendMsg{
		Source:      maker,
		Destination: exampleAddr("taker"),
		Asset:       assetA,
		Amount:      10,
	}

	unsigned := NewTx(open)
	signed := NewTx(open)
	sig, err := sigs.SignTx(key, signed, "test-123", 0)
	if err != nil {
		return nil, err
	}
	signed.Signatures = []*sigs.StdSignature{sig}

	user := &sigs.UserData{Pubkey: key.PublicKey(), Sequence: 17}

	return []commands.Example{
		{Filename: "open_msg", Obj: open},
		{Filename: "fulfill_msg", Obj: fulfill},
		{Filename: "cancel_msg", Obj: cancel},
		{Filename: "send_msg", Obj: send},
		{Filename: "user", Obj: user},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: signed},
	}, nil
}
