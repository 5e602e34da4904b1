package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

// counter is a tiny model used to exercise buckets.
type counter struct {
	Owner string
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	out := make([]byte, 8, 8+len(c.Owner))
	binary.BigEndian.PutUint64(out, c.Count)
	return append(out, c.Owner...), nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrInput, "too short")
	}
	c.Count = binary.BigEndian.Uint64(raw)
	c.Owner = string(raw[8:])
	return nil
}

func (c *counter) Validate() error {
	if c.Owner == "" {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

func byOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return []byte(c.Owner), nil
}

func newCounterBucket() Bucket {
	return NewBucket("counters", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", byOwner, false)
}

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	obj, err := b.Get(db, []byte("one"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), &counter{Owner: "alice", Count: 1})))
	obj, err = b.Get(db, []byte("one"))
	assert.Nil(t, err)
	assert.Equal(t, &counter{Owner: "alice", Count: 1}, obj.Value())
	assert.Equal(t, []byte("one"), obj.Key())

	has, err := b.Has(db, []byte("one"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	err = b.Save(db, NewSimpleObj([]byte("bad"), &counter{}))
	assert.IsErr(t, errors.ErrEmpty, err)

	assert.Nil(t, b.Delete(db, []byte("one")))
	obj, err = b.Get(db, []byte("one"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	// deleting twice is fine
	assert.Nil(t, b.Delete(db, []byte("one")))
}

func TestBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a1"), &counter{Owner: "alice", Count: 1})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a2"), &counter{Owner: "alice", Count: 2})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("b1"), &counter{Owner: "bob", Count: 1})))
	// an owner prefix of another owner must not match
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("x1"), &counter{Owner: "ali", Count: 7})))

	objs, err := b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	assert.Equal(t, []byte("a1"), objs[0].Key())
	assert.Equal(t, []byte("a2"), objs[1].Key())

	// moving an object to another owner updates the index
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a2"), &counter{Owner: "bob", Count: 2})))
	objs, err = b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))
	objs, err = b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))

	assert.Nil(t, b.Delete(db, []byte("b1")))
	objs, err = b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))

	_, err = b.GetIndexed(db, "missing", []byte("bob"))
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("uniq", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", byOwner, true)

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &counter{Owner: "alice"})))
	// updating the same object is fine
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a"), &counter{Owner: "alice", Count: 3})))
	err := b.Save(db, NewSimpleObj([]byte("b"), &counter{Owner: "alice"}))
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	qr := weave.NewQueryRouter()
	b.Register("", qr)

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a1"), &counter{Owner: "alice", Count: 1})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("a2"), &counter{Owner: "alice", Count: 2})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("b1"), &counter{Owner: "bob", Count: 1})))

	res, err := qr.Handler("/counters").Query(db, weave.KeyQueryMod, []byte("a2"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("a2")), res[0].Key)

	res, err = qr.Handler("/counters").Query(db, weave.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/counters/owner").Query(db, weave.KeyQueryMod, []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("b1")), res[0].Key)

	res, err = qr.Handler("/counters").Query(db, weave.KeyQueryMod, []byte("nope"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))
}

func TestNativeIdxKeyPacking(t *testing.T) {
	chunks := [][]byte{[]byte("aaa"), {}, []byte("c")}
	key, err := packNativeIdxKey(chunks)
	assert.Nil(t, err)
	assert.Equal(t, []byte("_x.\x03aaa\x00\x01c"), key)

	got, err := unpackNativeIdxKey(key)
	assert.Nil(t, err)
	assert.Equal(t, chunks, got)

	_, err = unpackNativeIdxKey([]byte("_x.\x05ab"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix    []byte
		wantStart []byte
		wantEnd   []byte
	}{
		"empty":     {nil, nil, nil},
		"simple":    {[]byte{1, 2}, []byte{1, 2}, []byte{1, 3}},
		"overflow":  {[]byte{1, 255}, []byte{1, 255}, []byte{2, 0}},
		"all bytes": {[]byte{255, 255}, []byte{255, 255}, nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}
