// Package orm keeps typed models in a KV store.
//
// Models of one type live in a bucket: every key is prefixed with
// "<bucket>:". A bucket may keep secondary indexes that map a value
// computed from the model to the primary keys of all models that produce
// it, and sequences that issue increasing IDs.
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket stores models of the same type as proto under a common prefix
// and keeps its indexes up to date. Use ModelBucket for a type-safe API.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Model
	indexes map[string]Index
}

// NewBucket panics if name is not 3 to 10 lowercase letters or
// underscores.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey returns the store key of key. The result never shares memory
// with the prefix.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Get returns the object stored under key, or nil.
func (b Bucket) Get(db custody.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an element is stored under given key.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Parse decodes value into a new model of the bucket type.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	m := newModel(b.proto)
	if err := m.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %T", m)
	}
	return NewObject(key, m), nil
}

// Save validates the object value and stores it together with its index
// entries.
func (b Bucket) Save(db custody.KVStore, obj Object) error {
	if len(obj.Key()) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if obj.Value() == nil {
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	if err := obj.Value().Validate(); err != nil {
		return err
	}
	bz, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), bz)
}

// Delete removes the object stored under key and its index entries.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db custody.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && model == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns the named sequence of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of the bucket that also maintains the named
// index. It panics if the name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

// WithMultiKeyIndex returns a copy of this bucket with given index that
// can store a single object under many index values.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q registered twice", name))
	}

	iname := b.name + "_" + name
	add := NewMultiKeyIndex(iname, indexer, unique)
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = add
	b.indexes = indexes
	return b
}

// IndexKeys returns primary keys of all objects stored under given value
// of the named index.
func (b Bucket) IndexKeys(db custody.ReadOnlyKVStore, name string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "name %s", name)
	}
	return idx.Keys(db, value)
}

// GetIndexed returns all objects stored under given value of the named
// index.
func (b Bucket) GetIndexed(db custody.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	refs, err := b.IndexKeys(db, name, value)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	objs := make([]Object, len(refs))
	for i, key := range refs {
		objs[i], err = b.Get(db, key)
		if err != nil {
			return nil, err
		}
	}
	return objs, nil
}
