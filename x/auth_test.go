package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/x"
	"github.com/stretchr/testify/assert"
)

func TestMultiAuth(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	c := weavetest.NewCondition()

	auth := x.ChainAuth(
		&weavetest.Auth{Signers: []weave.Condition{a}},
		&weavetest.Auth{Signers: []weave.Condition{b}},
	)
	ctx := context.Background()

	assert.Equal(t, []weave.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, a, x.MainSigner(ctx, auth))
	assert.Equal(t, []weave.Address{a.Address(), b.Address()}, x.GetAddresses(ctx, auth))

	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.False(t, auth.HasAddress(ctx, c.Address()))

	assert.True(t, x.HasAllAddresses(ctx, auth, []weave.Address{a.Address(), b.Address()}))
	assert.False(t, x.HasAllAddresses(ctx, auth, []weave.Address{a.Address(), c.Address()}))

	assert.Nil(t, x.MainSigner(ctx, x.ChainAuth()))
}
