package utils

import (
	"github.com/iov-one/weave-swap"
)

// PathKey is used by PathTagger as the key of the tag it appends.
const PathKey = "path"

// PathTagger will inspect the message being executed and add a tag
// `path = msg.Path()` to every successful deliver result, so clients
// have a standard way to search and subscribe to message kinds.
type PathTagger struct{}

var _ weave.Decorator = PathTagger{}

// NewPathTagger creates a PathTagger decorator
func NewPathTagger() PathTagger {
	return PathTagger{}
}

// Check just passes the request along
func (PathTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (PathTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, weave.Tag(PathKey, []byte(msg.Path())))
	return res, nil
}
