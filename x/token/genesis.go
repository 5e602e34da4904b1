package token

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const optKey = "token"

// GenesisHolding is a single initial balance declared in the genesis file.
type GenesisHolding struct {
	Owner  weave.Address `json:"owner"`
	Asset  weave.Address `json:"asset"`
	Amount uint64        `json:"amount"`
}

// Initializer issues the genesis balances.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial holdings from genesis and issue them.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var holdings []GenesisHolding
	if err := opts.ReadOptions(optKey, &holdings); err != nil {
		return errors.Wrap(err, "cannot read token genesis")
	}
	control := NewController()
	for i, h := range holdings {
		if err := h.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "holding %d owner", i)
		}
		if err := h.Asset.Validate(); err != nil {
			return errors.Wrapf(err, "holding %d asset", i)
		}
		if err := control.Issue(kv, h.Owner, h.Asset, h.Amount); err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
	}
	return nil
}
