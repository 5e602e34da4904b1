package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/gconf"
)

// Initializer stores the escrow configuration found in the genesis file.
// Without it no storage deposit is charged.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis reads opts["conf"]["escrow"].
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	err := gconf.InitConfig(kv, opts, pkgName, &Configuration{})
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init escrow configuration")
	}
	return nil
}
