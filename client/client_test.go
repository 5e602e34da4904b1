package client

import (
	"context"
	"fmt"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// kvTx is the "key=value" transaction the kvstore application expects.
type kvTx struct {
	key, value string
}

var _ weave.Tx = (*kvTx)(nil)

func (tx *kvTx) GetMsg() (weave.Msg, error) { return nil, nil }
func (tx *kvTx) Marshal() ([]byte, error)   { return []byte(tx.key + "=" + tx.value), nil }
func (tx *kvTx) Unmarshal([]byte) error     { return nil }

func TestStatus(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	status, err := c.Status(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)

	header, err := c.Header(ctx, status.Height)
	assert.Nil(t, err)
	assert.Equal(t, status.Height, header.Height)

	_, err = c.Header(ctx, status.Height+20)
	if err == nil {
		t.Fatal("expected error for a future height")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithCancel(context.Background())

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	last := status.Height

	headers := make(chan Header, 5)
	assert.Nil(t, c.SubscribeHeaders(ctx, headers))

	for i := 0; i < 3; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, last+1, h.Height)
		last++
	}

	cancel()
	for range headers {
		// drain until closed
	}
}

func TestCommitAndSearch(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := timeoutCtx()
	defer cancel()

	key := "search-" + cmn.RandStr(6)
	res, err := c.CommitTx(ctx, &kvTx{key: key, value: "1"})
	assert.Nil(t, err)
	assert.Nil(t, res.Err)
	if res.Height < 1 {
		t.Fatalf("unexpected height %d", res.Height)
	}

	again, err := c.WatchTx(ctx, res.ID)
	assert.Nil(t, err)
	assert.Equal(t, res.Height, again.Height)

	found, err := c.SearchTx(ctx, fmt.Sprintf("app.key='%s'", key))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(found))
	assert.Equal(t, res.ID, found[0].ID)

	none, err := c.SearchTx(ctx, "app.key='never-written'")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(none))
}

func TestGetTxByIDUnknown(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	_, err := c.GetTxByID(context.Background(), make([]byte, 32))
	assert.IsErr(t, errors.ErrNotFound, err)
}
