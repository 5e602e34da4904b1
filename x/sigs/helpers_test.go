package sigs

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/weavetest"
)

// stdTx is a signed transaction carrying raw payload as its sign bytes.
type stdTx struct {
	weavetest.Tx
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ weave.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/sign"}},
		payload: payload,
	}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []weave.Condition
}

var _ weave.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}
