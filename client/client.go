package client

import (
	"context"
	"fmt"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const searchPageSize = 50

// TransactionID is the hash identifying a transaction.
type TransactionID = cmn.HexBytes

// Header is a tendermint block header.
type Header = tmtypes.Header

// CommitResult is the outcome of a transaction included in a block.
// Result is set for success codes, Err for failure codes.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *weave.DeliverResult
	Err    error
}

// Status is the subjective state of the node we are connected to.
type Status struct {
	Height     int64
	CatchingUp bool
}

// Client talks to an escrowd node through the tendermint rpc.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps an existing tendermint connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection sends all requests to a remote node.
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// NewLocalConnection wraps an in-process node.
func NewLocalConnection(node *nm.Node) rpcclient.Client {
	return rpcclient.NewLocal(node)
}

// Status returns the latest height known to the node.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// ChainID returns the chain id from the genesis file of the node.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	return gen.Genesis.ChainID, nil
}

// Header returns the block header at the given height.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no header for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SubmitTx puts the transaction into the mempool. A failed CheckTx is
// returned as an error. Use WatchTx to wait for the block result.
func (c *Client) SubmitTx(ctx context.Context, tx weave.Tx) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshal: %s", err)
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// BroadcastTxCommit submits the tx and blocks until the node included it
// in a block. A failed CheckTx is returned as an error, a failed DeliverTx
// is reported in the result.
func (c *Client) BroadcastTxCommit(tx weave.Tx) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshal: %s", err)
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast tx: %s", err)
	}
	if res.CheckTx.IsErr() {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	result, err := weave.ParseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}, nil
}

// GetTxByID returns the result of a committed transaction.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "tx %X: %s", id, err)
	}
	return fromResultTx(tx), nil
}

// SearchTx returns all committed transactions matching the query, oldest
// first. Only indexed tags can be searched, see the init command.
func (c *Client) SearchTx(ctx context.Context, query string) ([]*CommitResult, error) {
	var results []*CommitResult
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrTimeout, err.Error())
		}
		search, err := c.conn.TxSearch(query, false, page, searchPageSize)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNetwork, "search %q: %s", query, err)
		}
		for _, tx := range search.Txs {
			results = append(results, fromResultTx(tx))
		}
		if len(search.Txs) < searchPageSize || len(results) >= search.TotalCount {
			return results, nil
		}
	}
}

// SubscribeHeaders writes every new block header to results until the
// context is cancelled. The channel is closed afterwards.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header) error {
	events, err := c.subscribe(ctx, eventQuery(tmtypes.EventNewBlockHeader))
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if h, ok := ev.Data.(tmtypes.EventDataNewBlockHeader); ok {
					select {
					case results <- h.Header:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return nil
}

// SubscribeTx writes the result of every transaction matching the query
// as it is committed, until the context is cancelled. The channel is
// closed afterwards.
func (c *Client) SubscribeTx(ctx context.Context, query string, results chan<- CommitResult) error {
	q := fmt.Sprintf("%s AND %s", eventQuery(tmtypes.EventTx), query)
	events, err := c.subscribe(ctx, q)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if tx, ok := ev.Data.(tmtypes.EventDataTx); ok {
					select {
					case results <- fromTxResult(tx.TxResult):
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return nil
}

// subscribe unsubscribes once the context is done.
func (c *Client) subscribe(ctx context.Context, query string) (<-chan ctypes.ResultEvent, error) {
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err)
	}
	subscriber := "escrowclient-" + cmn.RandStr(8)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe %q: %s", query, err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()
	return out, nil
}

func eventQuery(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}

func txQuery(id TransactionID) string {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

func fromResultTx(tx *ctypes.ResultTx) *CommitResult {
	res, err := weave.ParseDeliverOrError(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

func fromTxResult(tx tmtypes.TxResult) CommitResult {
	res, err := weave.ParseDeliverOrError(tx.Result)
	return CommitResult{
		ID:     tx.Tx.Hash(),
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}
