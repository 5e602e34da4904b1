package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := weave.WithLogger(context.Background(), logger)
	kv := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/open"}}

	_, err := NewLogging().Deliver(ctx, kv, tx, &weavetest.Handler{})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "path=escrow/open")
	assert.Contains(t, buf.String(), "duration=")

	buf.Reset()
	_, err = NewLogging().Deliver(ctx, kv, tx, &weavetest.Handler{DeliverErr: errors.ErrUnauthorized})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "E[")
	assert.Contains(t, buf.String(), "unauthorized")
}
