package token

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const (
	pathSendMsg = "token/send"

	maxMemoSize = 128
)

// SendMsg moves amount of asset from the source holding to the
// destination holding. It must be signed by the source.
type SendMsg struct {
	Source      weave.Address `json:"source"`
	Destination weave.Address `json:"destination"`
	Asset       weave.Address `json:"asset"`
	Amount      uint64        `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo too long: %d", len(m.Memo))
	}
	return nil
}
