package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
)

func TestPathTagger(t *testing.T) {
	ctx := context.Background()
	kv := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "token/send"}}

	res, err := NewPathTagger().Deliver(ctx, kv, tx, &weavetest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, []byte(PathKey), res.Tags[0].Key)
	assert.Equal(t, []byte("token/send"), res.Tags[0].Value)

	_, err = NewPathTagger().Deliver(ctx, kv, tx, &weavetest.Handler{DeliverErr: errors.ErrHuman})
	assert.True(t, errors.ErrHuman.Is(err))

	var _ weave.Decorator = NewPathTagger()
}
