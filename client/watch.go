package client

import (
	"context"
	"time"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// indexDelay gives the node time to index a freshly committed block.
const indexDelay = 100 * time.Millisecond

// WatchTx blocks until the transaction is included in a block and returns
// its result. A transaction committed before the call is found by search.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan CommitResult, 1)
	if err := c.SubscribeTx(subctx, txQuery(id), results); err != nil {
		return nil, err
	}
	if res, err := c.GetTxByID(ctx, id); err == nil {
		return res, nil
	}

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(errors.ErrTimeout, "tx %X", id)
	case res, ok := <-results:
		if !ok {
			return nil, errors.Wrapf(errors.ErrNetwork, "unsubscribed before tx %X", id)
		}
		return &res, nil
	}
}

// CommitTx submits the transaction and waits for its block result.
func (c *Client) CommitTx(ctx context.Context, tx weave.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WaitForNextBlock returns the header of the next block.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	return c.WaitForHeight(ctx, status.Height+1)
}

// WaitForHeight returns the first new header with at least the given
// height. For a height in the past it returns the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subctx, headers); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(errors.ErrTimeout, "height %d", height)
		case h, ok := <-headers:
			if !ok {
				return nil, errors.Wrapf(errors.ErrNetwork, "subscription closed before height %d", height)
			}
			if h.Height >= height {
				time.Sleep(indexDelay)
				return &h, nil
			}
		}
	}
}
