package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/gconf"
	amino "github.com/tendermint/go-amino"
)

const pkgName = "escrow"

var cdc = amino.NewCodec()

// Configuration is the on chain configuration of the escrow extension.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner weave.Address `json:"owner"`
	// StorageDeposit is charged to the maker for every open escrow and
	// refunded when the escrow is closed. Zero disables the deposit.
	StorageDeposit uint64 `json:"storage_deposit"`
	// NativeAsset is the asset the storage deposit is paid in.
	NativeAsset weave.Address `json:"native_asset"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if c.StorageDeposit > 0 {
		if err := c.NativeAsset.Validate(); err != nil {
			return errors.Wrap(err, "native asset")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// loadConf returns the current configuration. A missing configuration
// disables the storage deposit.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, pkgName, &conf)
	switch {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return Configuration{}, nil
	default:
		return conf, errors.Wrap(err, "cannot load configuration")
	}
}

// UpdateConfigurationMsg patches the configuration. Zero value fields of
// the patch are ignored.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
