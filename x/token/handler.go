package token

import (
	"strconv"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller, guards ...Guard) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control, guards...))
}

// Guard vetoes plain transfers to addresses whose holdings are managed by
// another extension.
type Guard interface {
	// Accepts returns an error if dst must not receive a plain transfer.
	Accepts(db weave.ReadOnlyKVStore, dst weave.Address) error
}

// RegisterQuery will register the holdings bucket as "/holdings" and the
// owner index as "/holdings/owner".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("holdings", qr)
}

// SendHandler will handle sending tokens
type SendHandler struct {
	auth    x.Authenticator
	control Controller
	guards  []Guard
}

var _ weave.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller, guards ...Guard) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
		guards:  guards,
	}
}

// Check verifies the message is properly formed and signed, and returns
// the cost of executing it.
func (h SendHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to destination.
func (h SendHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Move(store, msg.Source, msg.Destination, msg.Asset, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{
		Tags: []weave.KVPair{
			weave.Tag("source", []byte(msg.Source.String())),
			weave.Tag("destination", []byte(msg.Destination.String())),
			weave.Tag("amount", []byte(strconv.FormatUint(msg.Amount, 10))),
		},
	}, nil
}

func (h SendHandler) validate(ctx weave.Context, db weave.ReadOnlyKVStore, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	for _, g := range h.guards {
		if err := g.Accepts(db, msg.Destination); err != nil {
			return nil, errors.Wrap(err, "destination")
		}
	}
	return &msg, nil
}
