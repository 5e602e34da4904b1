package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const (
	pathOpenMsg                = "escrow/open"
	pathFulfillMsg             = "escrow/fulfill"
	pathCancelMsg              = "escrow/cancel"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

// OpenMsg creates a new escrow owned by the maker and moves Deposit units
// of AssetA from the maker into the escrow vault. The maker must sign.
type OpenMsg struct {
	Maker   weave.Address `json:"maker"`
	Seed    uint64        `json:"seed"`
	AssetA  weave.Address `json:"asset_a"`
	AssetB  weave.Address `json:"asset_b"`
	Deposit uint64        `json:"deposit"`
	Receive uint64        `json:"receive"`
}

var _ weave.Msg = (*OpenMsg)(nil)

func (OpenMsg) Path() string {
	return pathOpenMsg
}

// Validate checks the addresses. Zero amounts are accepted.
func (m *OpenMsg) Validate() error {
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.AssetA.Validate(); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := m.AssetB.Validate(); err != nil {
		return errors.Wrap(err, "asset b")
	}
	return nil
}

// FulfillMsg settles an open escrow. The taker pays the requested amount
// to the maker and receives the whole vault. The taker must sign.
type FulfillMsg struct {
	Escrow weave.Address `json:"escrow"`
	Taker  weave.Address `json:"taker"`
}

var _ weave.Msg = (*FulfillMsg)(nil)

func (FulfillMsg) Path() string {
	return pathFulfillMsg
}

func (m *FulfillMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Taker.Validate(); err != nil {
		return errors.Wrap(err, "taker")
	}
	return nil
}

// CancelMsg closes an open escrow and returns the vault to the maker. Only
// the maker can sign it.
type CancelMsg struct {
	Escrow weave.Address `json:"escrow"`
}

var _ weave.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	return nil
}
