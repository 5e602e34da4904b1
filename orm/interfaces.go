package orm

import (
	"github.com/iov-one/weave-swap"
)

// Model is implemented by any entity that can be stored using a bucket.
type Model interface {
	weave.Persistent
	Validate() error
}

// Object is what is stored in the bucket.
// Key is joined with the prefix to set the full key.
// Value is the data stored.
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid state to
	// save to the db (eg. field missing, out of range, ...)
	Validate() error
	Value() weave.Persistent
}

// Reader defines an interface that allows reading objects from the db.
type Reader interface {
	Get(db weave.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Index maintains a secondary lookup for the objects of a bucket.
type Index interface {
	weave.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the
	// bucket entities has changed in the store.
	//
	// prev == nil means insert
	// next == nil means delete
	// both == nil is error
	Update(db weave.KVStore, prev Object, next Object) error

	// Keys returns an iterator over all entity keys that were indexed
	// under given value. Values of the iterator are always nil.
	Keys(db weave.ReadOnlyKVStore, value []byte) weave.Iterator
}

// Indexer calculates the secondary index key for a given object.
// Returning nil means the object is not indexed.
type Indexer func(Object) ([]byte, error)
