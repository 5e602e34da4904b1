package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
)

// chainIDKey is where the chain id is stored. The "_wv:" prefix is
// reserved for internal data.
const chainIDKey = "_wv:chainID"

func loadChainID(kv weave.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores the chain id. It can be done only once.
func saveChainID(kv weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	return kv.Set(k, []byte(chainID))
}

// GenesisDoc is the part of the tendermint genesis file the application
// cares about.
type GenesisDoc struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(path string) (*GenesisDoc, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	return &doc, nil
}

// ValidateGenesis runs the initializer against an in memory store, so that
// a broken app state is found before the chain is started.
func ValidateGenesis(doc *GenesisDoc, init weave.Initializer) error {
	if !weave.IsValidChainID(doc.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", doc.ChainID)
	}
	if len(doc.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}
	var opts weave.Options
	if err := json.Unmarshal(doc.AppState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app_state: %s", err)
	}
	return init.FromGenesis(opts, store.MemStore())
}
