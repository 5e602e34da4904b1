package app

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	open := &weavetest.Handler{}
	cancel := &weavetest.Handler{DeliverErr: errors.ErrState}
	r.Handle("escrow/open", open)
	r.Handle("escrow/cancel", cancel)

	db := store.MemStore()
	ctx := context.Background()

	_, err := r.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/open"}})
	require.NoError(t, err)
	assert.Equal(t, 1, open.DeliverCallCount())

	_, err = r.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/cancel"}})
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 1, cancel.DeliverCallCount())

	_, err = r.Check(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/fulfill"}})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, db, &weavetest.Tx{})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("token/send", &weavetest.Handler{})

	assert.Panics(t, func() { r.Handle("token/send", &weavetest.Handler{}) })
	assert.Panics(t, func() { r.Handle("send", &weavetest.Handler{}) })
	assert.Panics(t, func() { r.Handle("token/Send!", &weavetest.Handler{}) })
}
