package orm

import (
	"reflect"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists, and
	// ErrNotFound otherwise.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// ByIndex returns the primary keys of all entities stored under given
	// value of the named index.
	ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// Put saves given model in the database. If key is nil, the next value
	// of the ID sequence is used. The key the model was stored under is
	// returned.
	Put(db custody.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// WithMultiKeyIndex configures the bucket to build an index with given
// name, where one entity can be referenced by many index values.
func WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithMultiKeyIndex(name, indexer, unique)
	}
}

// WithIDSequence configures the bucket to use the given sequence instance
// for generating ID.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

// NewModelBucket returns a ModelBucket instance. This implementation relies on
// a bucket instance.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, m)
	mb := &modelBucket{
		b:     b,
		idSeq: b.Sequence("id"),
		model: reflect.TypeOf(m),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	idSeq Sequence
	model reflect.Type
}

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		// nil key is a special case that would cause the store API to panic.
		return errors.ErrNotFound
	}
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	return mb.b.IndexKeys(db, indexName, value)
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) ([]byte, error) {
	if t := reflect.TypeOf(m); t != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %s in %s bucket", t, mb.model)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
	}

	if err := mb.b.Save(db, NewObject(key, m)); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}
