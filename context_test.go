package weave

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// test height - uninitialized
	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)

	now := time.Now().UTC()
	ctx = WithHeader(ctx, abci.Header{Height: 7, Time: now})
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	bt, err := BlockTime(ctx)
	assert.NoError(t, err)
	assert.Equal(t, now, bt)
	// no reset
	assert.Panics(t, func() { WithHeader(ctx, abci.Header{Height: 9}) })

	// changing the info, should modify the logger, but not the height
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetHeight(ctx2)
	assert.Equal(t, int64(7), val)

	// chain id MUST be set exactly once
	assert.Equal(t, "", GetChainID(ctx))
	ctx = WithChainID(ctx, "swap-chain")
	assert.Equal(t, "swap-chain", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
	// must be valid
	assert.Panics(t, func() { WithChainID(bg, "no") })
}

func TestBlockTimeMissing(t *testing.T) {
	_, err := BlockTime(context.Background())
	assert.Error(t, err)
}
