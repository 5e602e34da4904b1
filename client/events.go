package client

import (
	"context"
	"fmt"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/escrow"
)

// Event is a single escrow state transition read from the tags of a
// committed transaction.
type Event struct {
	ID     TransactionID
	Height int64
	Escrow weave.Address
	Action string
	Maker  weave.Address
	// Taker is only set on fulfill.
	Taker weave.Address
}

// EscrowQuery matches all transactions touching the escrow.
func EscrowQuery(addr weave.Address) string {
	return fmt.Sprintf("%s='%s'", escrow.TagEscrow, addr)
}

// MakerQuery matches all transactions on escrows opened by maker.
func MakerQuery(maker weave.Address) string {
	return fmt.Sprintf("%s='%s'", escrow.TagMaker, maker)
}

// ParseEvent reads the escrow tags of a successful result. It fails with
// ErrEmpty when the transaction carried no escrow message.
func ParseEvent(res *CommitResult) (*Event, error) {
	if res.Err != nil {
		return nil, res.Err
	}
	ev := Event{ID: res.ID, Height: res.Height}
	var err error
	for _, tag := range res.Result.Tags {
		switch string(tag.Key) {
		case escrow.TagEscrow:
			ev.Escrow, err = weave.ParseAddress(string(tag.Value))
		case escrow.TagMaker:
			ev.Maker, err = weave.ParseAddress(string(tag.Value))
		case escrow.TagTaker:
			ev.Taker, err = weave.ParseAddress(string(tag.Value))
		case escrow.TagAction:
			ev.Action = string(tag.Value)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "tag %s", tag.Key)
		}
	}
	if ev.Escrow == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no escrow tags")
	}
	return &ev, nil
}

// History returns every successful transition of the escrow, oldest
// first. A closed escrow ends with a fulfill or cancel event.
func (c *Client) History(ctx context.Context, addr weave.Address) ([]Event, error) {
	results, err := c.SearchTx(ctx, EscrowQuery(addr))
	if err != nil {
		return nil, err
	}
	return collectEvents(results), nil
}

// WatchMaker writes every escrow transition of the maker's escrows as it
// is committed, until the context is cancelled.
func (c *Client) WatchMaker(ctx context.Context, maker weave.Address, events chan<- Event) error {
	results := make(chan CommitResult, 8)
	if err := c.SubscribeTx(ctx, MakerQuery(maker), results); err != nil {
		return err
	}
	go func() {
		defer close(events)
		for res := range results {
			if ev, err := ParseEvent(&res); err == nil {
				events <- *ev
			}
		}
	}()
	return nil
}

func collectEvents(results []*CommitResult) []Event {
	events := make([]Event, 0, len(results))
	for _, res := range results {
		if ev, err := ParseEvent(res); err == nil {
			events = append(events, *ev)
		}
	}
	return events
}
