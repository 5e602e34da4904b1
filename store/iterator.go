package store

import (
	"bytes"

	"github.com/iov-one/weave-swap/errors"
)

// itemIter merges the items cached in a btree with the parent iterator.
// Cached items shadow parent entries with the same key, and deleted
// items hide them.
type itemIter struct {
	cached  []keyer
	parent  Iterator
	reverse bool

	// next entry of the parent, read ahead
	pkey, pvalue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(cached []keyer, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		cached:  cached,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next visible item, or ErrIteratorDone.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		if err := i.loadParent(); err != nil {
			return nil, nil, err
		}

		switch src := i.source(); src {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			i.pLoaded = false
			return i.pkey, i.pvalue, nil
		case us, both:
			item := i.cached[0]
			i.cached = i.cached[1:]
			if src == both {
				// The cache overwrites or deletes the parent value.
				i.pLoaded = false
			}
			if set, ok := item.(setItem); ok {
				return set.key, set.value, nil
			}
			// deleted, keep looking
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.cached = nil
}

func (i *itemIter) loadParent() error {
	if i.pLoaded || i.pDone {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pkey, i.pvalue, i.pLoaded = key, value, true
	case errors.ErrIteratorDone.Is(err):
		i.pDone = true
	default:
		return err
	}
	return nil
}

// source marks where the next item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// source selects the iterator with the next key in iteration order.
func (i *itemIter) source() source {
	hasParent := i.pLoaded
	hasUs := len(i.cached) > 0
	switch {
	case !hasParent && !hasUs:
		return none
	case !hasParent:
		return us
	case !hasUs:
		return parent
	}

	cmp := bytes.Compare(i.pkey, i.cached[0].Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
