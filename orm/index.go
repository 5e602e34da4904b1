package orm

import (
	"bytes"
	"math"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const nativeIdxPrefix = "_x."

// NewNativeIndex returns an index implementation that is using a database
// native storage and query in order to maintain and provide access to an
// index.
func NewNativeIndex(name string, indexer Indexer, unique bool, dbKey func([]byte) []byte) Index {
	return &nativeIndex{
		name:    name,
		indexer: indexer,
		unique:  unique,
		dbKey:   dbKey,
	}
}

// nativeIndex is an index implementation that is using a database native
// storage and query in order to maintain and provide access to an index.
type nativeIndex struct {
	name    string
	indexer Indexer
	unique  bool
	// dbKey is a function that for given entity ID returns that entity
	// database key.
	dbKey func([]byte) []byte
}

func (ix *nativeIndex) Name() string {
	return ix.name
}

// Update updates the index. It should be called when any of the bucket
// entities has changed in the store.
func (ix *nativeIndex) Update(db weave.KVStore, prev Object, next Object) error {
	if next == nil && prev == nil {
		return errors.Wrap(errors.ErrInput, "update requires at least one non-nil object")
	}
	if next != nil && prev != nil && !bytes.Equal(next.Key(), prev.Key()) {
		return errors.Wrap(errors.ErrState, "previous key is not the same as the new one")
	}

	if prev != nil {
		value, err := ix.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		if value != nil {
			idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), value, prev.Key()})
			if err != nil {
				return errors.Wrap(err, "build index key")
			}
			if err := db.Delete(idxKey); err != nil {
				return errors.Wrap(err, "db delete")
			}
		}
	}

	if next != nil {
		value, err := ix.indexer(next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		if value == nil {
			return nil
		}
		if ix.unique {
			keys, err := consumeIteratorKeys(ix.Keys(db, value))
			if err != nil {
				return err
			}
			for _, k := range keys {
				if !bytes.Equal(k, next.Key()) {
					return errors.Wrap(errors.ErrDuplicate, ix.name)
				}
			}
		}
		idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), value, next.Key()})
		if err != nil {
			return errors.Wrap(err, "build index key")
		}
		if err := db.Set(idxKey, []byte{}); err != nil {
			return errors.Wrap(err, "db set")
		}
	}
	return nil
}

// Keys returns an iterator over the keys of all entities indexed under
// the value.
//
// Index keys are in format:
//    <prefix>#<index name>#<value>#<entity id>
// where # is the length of the following chunk. To find all entries of a
// value, iterate over all keys between
//    <prefix>#<index name>#<value> and <prefix>#<index name>#<value>{255}
// Value 255 is never used as a chunk length.
func (ix *nativeIndex) Keys(db weave.ReadOnlyKVStore, value []byte) weave.Iterator {
	start, err := packNativeIdxKey([][]byte{[]byte(ix.name), value})
	if err != nil {
		return &failedIterator{err: errors.Wrap(err, "build index key")}
	}
	end := make([]byte, len(start)+1)
	copy(end, start)
	end[len(end)-1] = math.MaxUint8

	it, err := db.Iterator(start, end)
	if err != nil {
		return &failedIterator{err: err}
	}
	return &nativeIndexIterator{dbit: it}
}

// Query handles queries from the QueryRouter. It returns the referenced
// entities, not the index entries.
func (ix *nativeIndex) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %q", mod)
	}
	keys, err := consumeIteratorKeys(ix.Keys(db, data))
	if err != nil {
		return nil, err
	}
	models := make([]weave.Model, 0, len(keys))
	for _, key := range keys {
		dbKey := ix.dbKey(key)
		value, err := db.Get(dbKey)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot get %X value", key)
		}
		models = append(models, weave.Model{Key: dbKey, Value: value})
	}
	return models, nil
}

// nativeIndexIterator wraps a database iterator and parse results to
// provide indexed entities keys.
type nativeIndexIterator struct {
	dbit weave.Iterator
}

func (it *nativeIndexIterator) Release() {
	it.dbit.Release()
}

func (it *nativeIndexIterator) Next() ([]byte, []byte, error) {
	key, _, err := it.dbit.Next()
	if err != nil {
		return nil, nil, err
	}
	chunks, err := unpackNativeIdxKey(key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unpack native index key")
	}
	return chunks[len(chunks)-1], nil, nil
}

type failedIterator struct {
	err error
}

func (it *failedIterator) Next() ([]byte, []byte, error) {
	return nil, nil, it.err
}

func (failedIterator) Release() {}

// packNativeIdxKey serialize a native index key from a set of values to a
// single key. This process can be reversed using unpackNativeIdxKey.
//
// Each chunk is prefixed with its length, encoded as a uint8 value. A key
// created from 3 chunks, "aaa", "" and "c", is
//
//   _x.<3>aaa<0><1>c
func packNativeIdxKey(chunks [][]byte) ([]byte, error) {
	size := len(nativeIdxPrefix)
	for _, b := range chunks {
		size += len(b) + 1
	}
	res := make([]byte, 0, size)
	res = append(res, nativeIdxPrefix...)
	for _, b := range chunks {
		// MaxUint8 is reserved for the search purpose.
		if len(b) > math.MaxUint8-1 {
			return nil, errors.Wrapf(errors.ErrInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		res = append(res, uint8(len(b)))
		res = append(res, b...)
	}
	return res, nil
}

// unpackNativeIdxKey decodes native index key and extracts all chunks
// that compose that key.
func unpackNativeIdxKey(b []byte) ([][]byte, error) {
	if !bytes.HasPrefix(b, []byte(nativeIdxPrefix)) {
		return nil, errors.Wrap(errors.ErrInput, "not a native index key")
	}
	b = b[len(nativeIdxPrefix):]
	res := make([][]byte, 0, 3)
	for len(b) > 0 {
		size := int(b[0])
		if len(b) < 1+size {
			return nil, errors.Wrap(errors.ErrInput, "malformed chunk")
		}
		res = append(res, b[1:1+size])
		b = b[1+size:]
	}
	if len(res) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty index key")
	}
	return res, nil
}
