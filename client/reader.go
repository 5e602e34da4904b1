package client

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/app"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// ABCIQuerier runs application queries. rpcclient.Client implements it.
type ABCIQuerier interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
}

// AppQuerier runs queries against an in-process application.
type AppQuerier struct {
	App abci.Application
}

var _ ABCIQuerier = AppQuerier{}

func (a AppQuerier) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	res := a.App.Query(abci.RequestQuery{Path: path, Data: data})
	return &ctypes.ResultABCIQuery{Response: res}, nil
}

// Reader decodes the application state exposed by the query routes.
type Reader struct {
	q ABCIQuerier
}

// NewReader returns a reader using given querier.
func NewReader(q ABCIQuerier) *Reader {
	return &Reader{q: q}
}

// Reader returns a state reader using the client connection.
func (c *Client) Reader() *Reader {
	return NewReader(c.conn)
}

// Models runs a query and returns the decoded result set.
func (r *Reader) Models(path string, data []byte) ([]weave.Model, error) {
	res, err := r.q.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	if res.Response.IsErr() {
		return nil, errors.ABCIError(res.Response.Code, res.Response.Log)
	}
	return app.DecodeQuery(res.Response.Key, res.Response.Value)
}

// Nonce returns the sequence the next signature of addr must use.
func (r *Reader) Nonce(addr weave.Address) (int64, error) {
	models, err := r.Models("/auth", addr)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(err, "user data")
	}
	return user.Sequence, nil
}

// Balance returns how much of asset the owner holds. A missing holding
// is a zero balance.
func (r *Reader) Balance(owner, asset weave.Address) (uint64, error) {
	models, err := r.Models("/holdings", token.HoldingKey(owner, asset))
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var h token.Holding
	if err := h.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(err, "holding")
	}
	return h.Amount, nil
}

// Holdings lists every holding of the owner.
func (r *Reader) Holdings(owner weave.Address) ([]token.Holding, error) {
	models, err := r.Models("/holdings/owner", owner)
	if err != nil {
		return nil, err
	}
	out := make([]token.Holding, len(models))
	for i, m := range models {
		if err := out[i].Unmarshal(m.Value); err != nil {
			return nil, errors.Wrap(err, "holding")
		}
	}
	return out, nil
}

// Escrow returns the open escrow stored at addr. ErrStaleEscrow is
// returned when there is none.
func (r *Reader) Escrow(addr weave.Address) (*escrow.Record, error) {
	models, err := r.Models("/escrows", addr)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Wrapf(escrow.ErrStaleEscrow, "no escrow at %s", addr)
	}
	var rec escrow.Record
	if err := rec.Unmarshal(models[0].Value); err != nil {
		return nil, err
	}
	return &rec, nil
}

// EscrowsByMaker lists the open escrows of a maker, keyed by escrow
// address.
func (r *Reader) EscrowsByMaker(maker weave.Address) (map[string]*escrow.Record, error) {
	models, err := r.Models("/escrows/maker", maker)
	if err != nil {
		return nil, err
	}
	prefix := len(escrow.NewBucket().DBKey(nil))
	out := make(map[string]*escrow.Record, len(models))
	for _, m := range models {
		var rec escrow.Record
		if err := rec.Unmarshal(m.Value); err != nil {
			return nil, err
		}
		out[weave.Address(m.Key[prefix:]).String()] = &rec
	}
	return out, nil
}

// EscrowAddress asks the node for the address of the escrow a maker
// would open with seed.
func (r *Reader) EscrowAddress(maker weave.Address, seed uint64) (weave.Address, uint8, error) {
	models, err := r.Models("/escrows/addr", escrow.AddressQuery(maker, seed))
	if err != nil {
		return nil, 0, err
	}
	if len(models) != 1 || len(models[0].Value) != 1 {
		return nil, 0, errors.Wrap(errors.ErrState, "unexpected address query result")
	}
	return weave.Address(models[0].Key), models[0].Value[0], nil
}
