package orm

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherModel struct{ thing }

func (o *otherModel) Copy() Model { return &otherModel{thing: *o.thing.Copy().(*thing)} }

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("things", &thing{},
		WithIndex("name", thingByName, true),
		WithMultiKeyIndex("tag", thingByTag, false),
	)

	k1, err := b.Put(db, nil, &thing{Name: "first", Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), k1)

	k2, err := b.Put(db, nil, &thing{Name: "second", Tags: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(2), k2)

	var got thing
	require.NoError(t, b.One(db, k2, &got))
	assert.Equal(t, "second", got.Name)

	require.NoError(t, b.Has(db, k1))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("nope"))))
	assert.True(t, errors.ErrNotFound.Is(b.One(db, []byte("nope"), &got)))

	var other otherModel
	err = b.One(db, k1, &other)
	assert.True(t, errors.ErrType.Is(err), "got %+v", err)

	_, err = b.Put(db, nil, &otherModel{thing{Name: "x"}})
	assert.True(t, errors.ErrType.Is(err), "got %+v", err)

	_, err = b.Put(db, nil, &thing{})
	assert.True(t, errors.ErrEmpty.Is(err))

	keys, err := b.ByIndex(db, "tag", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{k1, k2}, keys)

	keys, err = b.ByIndex(db, "name", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{k1}, keys)

	require.NoError(t, b.Delete(db, k1))
	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, k1)))
	keys, err = b.ByIndex(db, "tag", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{k2}, keys)
}

func TestModelBucketCustomSequence(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("shared", "id")
	b := NewModelBucket("things", &thing{}, WithIDSequence(seq))

	_, err := seq.NextVal(db)
	require.NoError(t, err)

	key, err := b.Put(db, nil, &thing{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(2), key)

	key, err = b.Put(db, []byte("explicit"), &thing{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, []byte("explicit"), key)
}
