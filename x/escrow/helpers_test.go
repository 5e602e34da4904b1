package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/orm"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
	"github.com/iov-one/weave-swap/x/token"
)

func newTestStore() store.CacheableKVStore {
	return store.MemStore()
}

func newObj(key weave.Address, r *Record) orm.Object {
	return orm.NewSimpleObj(key, r)
}

// run executes the message with both check and deliver, the way the
// application does. Check runs on a discarded cache.
func run(t testing.TB, h weave.Handler, db store.CacheableKVStore, msg weave.Msg) (*weave.DeliverResult, error) {
	t.Helper()
	tx := &weavetest.Tx{Msg: msg}

	cache := db.CacheWrap()
	_, err := h.Check(context.Background(), cache, tx)
	cache.Discard()
	if err != nil {
		return nil, err
	}
	return h.Deliver(context.Background(), db, tx)
}

type handlers struct {
	open    weave.Handler
	fulfill weave.Handler
	cancel  weave.Handler
}

func newHandlers(signer weave.Condition, bank token.Controller) handlers {
	auth := &weavetest.Auth{Signer: signer}
	return handlers{
		open:    NewOpenHandler(ProgramID, auth, bank),
		fulfill: NewFulfillHandler(ProgramID, auth, bank),
		cancel:  NewCancelHandler(ProgramID, auth, bank),
	}
}

func assertBalance(t testing.TB, bank token.Controller, db weave.ReadOnlyKVStore, owner, asset weave.Address, want uint64) {
	t.Helper()
	got, err := bank.Balance(db, owner, asset)
	assert.Nil(t, err)
	if got != want {
		t.Fatalf("%s holds %d of %s, want %d", owner, got, asset, want)
	}
}

func assertClosed(t testing.TB, bank token.Controller, db weave.ReadOnlyKVStore, escrow, asset weave.Address) {
	t.Helper()
	ok, err := NewBucket().Has(db, escrow)
	assert.Nil(t, err)
	if ok {
		t.Fatalf("escrow %s record exists", escrow)
	}
	ok, err = bank.Exists(db, escrow, asset)
	assert.Nil(t, err)
	if ok {
		t.Fatalf("escrow %s vault exists", escrow)
	}
}

type testRouter map[string]weave.Handler

func newRouter() testRouter {
	return make(testRouter)
}

func (r testRouter) Handle(path string, h weave.Handler) {
	r[path] = h
}

func (r testRouter) Handler(path string) weave.Handler {
	return r[path]
}
