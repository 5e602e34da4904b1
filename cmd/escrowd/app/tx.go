package escrowd

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
	amino "github.com/tendermint/go-amino"
)

// cdc knows every message supported by the application.
var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers the transaction and all message types.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*weave.Msg)(nil), nil)
	cdc.RegisterConcrete(&token.SendMsg{}, "token/send", nil)
	cdc.RegisterConcrete(&escrow.OpenMsg{}, "escrow/open", nil)
	cdc.RegisterConcrete(&escrow.FulfillMsg{}, "escrow/fulfill", nil)
	cdc.RegisterConcrete(&escrow.CancelMsg{}, "escrow/cancel", nil)
	cdc.RegisterConcrete(&escrow.UpdateConfigurationMsg{}, "escrow/update_configuration", nil)
}

// Tx is the only transaction type of the application. It carries a single
// message and the signatures of everyone authorizing it.
type Tx struct {
	Msg        weave.Msg             `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps the message into an unsigned transaction.
func NewTx(msg weave.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it.
func TxDecoder(raw []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode transaction: %s", err)
	}
	return nil
}

// MarshalJSON renders the transaction with message type names.
func (tx *Tx) MarshalJSON() ([]byte, error) {
	type plain Tx
	return cdc.MarshalJSON((*plain)(tx))
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (tx *Tx) UnmarshalJSON(raw []byte) error {
	type plain Tx
	return cdc.UnmarshalJSON(raw, (*plain)(tx))
}
