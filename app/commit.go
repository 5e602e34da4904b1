package app

import (
	"sync"

	"github.com/iov-one/weave-swap"
)

// CommitStore keeps separate scratch pads for check and deliver on top of
// the committed state.
type CommitStore struct {
	mu        sync.Mutex
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest committed version of the store.
func NewCommitStore(store weave.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, err
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver cache, persists a new version and resets
// both caches. Changes made during check are dropped.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, err
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return id, nil
}

// CheckStore is used by CheckTx.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.check
}

// DeliverStore is used by DeliverTx, InitChain and BeginBlock.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.deliver
}

// QueryStore is a read only snapshot of the committed state.
func (cs *CommitStore) QueryStore() weave.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}
