package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Index is a secondary index that maps values computed from an object to
// its primary key.
type Index interface {
	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db custody.KVStore, prev Object, save Object) error

	// Keys returns all entity keys that were indexed under given value.
	Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key. This implmentation should be
// used only for small sized index collection.
//
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or an array of primary keys (!unique).
type compactIndex struct {
	name    string
	id      []byte
	unique  bool
	indexer MultiKeyIndexer
}

var _ Index = compactIndex{}

// NewMultiKeyIndex constructs an index with multi key indexer.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Index {
	return compactIndex{
		name:    name,
		id:      append([]byte(compactIdxPrefix), []byte(name+":")...),
		indexer: indexer,
		unique:  unique,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
func (i compactIndex) Update(db custody.KVStore, prev Object, save Object) error {
	type s struct{ a, b bool }
	sw := s{prev == nil, save == nil}
	switch sw {
	case s{true, true}:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case s{true, false}:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case s{false, true}:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

func (i compactIndex) move(db custody.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrHuman, "cannot modify the primary key of an object")
	}
	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	for _, k := range oldKeys {
		if !containsRef(newKeys, k) {
			if err := i.remove(db, k, prev.Key()); err != nil {
				return err
			}
		}
	}
	for _, k := range newKeys {
		if !containsRef(oldKeys, k) {
			if err := i.insert(db, k, save.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i compactIndex) insert(db custody.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}

	if i.unique {
		if cur != nil && !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbkey, pk)
	}

	refs, err := decodeRefs(cur)
	if err != nil {
		return err
	}
	refs, added := addRef(refs, pk)
	if !added {
		return nil
	}
	bz, err := encodeRefs(refs)
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

func (i compactIndex) remove(db custody.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "index %s points to another object", i.name)
		}
		return db.Delete(dbkey)
	}

	refs, err := decodeRefs(cur)
	if err != nil {
		return err
	}
	refs, removed := removeRef(refs, pk)
	if !removed {
		return errors.Wrapf(errors.ErrNotFound, "index %s does not reference the object", i.name)
	}
	if len(refs) == 0 {
		return db.Delete(dbkey)
	}
	bz, err := encodeRefs(refs)
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

// Keys returns a list of all entity keys that were indexed under given value.
func (i compactIndex) Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	return decodeRefs(val)
}

func (i compactIndex) index(obj Object) ([][]byte, error) {
	keys, err := i.indexer(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return keys, nil
}

// addRef inserts ref keeping the set sorted. Returns false if the ref was
// already present.
func addRef(refs [][]byte, ref []byte) ([][]byte, bool) {
	i, found := findRef(refs, ref)
	if found {
		return refs, false
	}
	refs = append(refs, nil)
	copy(refs[i+1:], refs[i:])
	refs[i] = ref
	return refs, true
}

func removeRef(refs [][]byte, ref []byte) ([][]byte, bool) {
	i, found := findRef(refs, ref)
	if !found {
		return refs, false
	}
	return append(refs[:i], refs[i+1:]...), true
}

// returns (index, found) where found is true if
// the ref was in the set, index is where it is
// (or where it should be)
func findRef(refs [][]byte, ref []byte) (int, bool) {
	for i, r := range refs {
		switch bytes.Compare(ref, r) {
		case -1:
			return i, false
		case 0:
			return i, true
		}
	}
	// hit the end, must append
	return len(refs), false
}

func containsRef(refs [][]byte, ref []byte) bool {
	for _, r := range refs {
		if bytes.Equal(r, ref) {
			return true
		}
	}
	return false
}

// multiRef is the serialized form of a non unique index entry.
type multiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

func (m *multiRef) Reset()         { *m = multiRef{} }
func (m *multiRef) String() string { return proto.CompactTextString(m) }
func (*multiRef) ProtoMessage()    {}

func encodeRefs(refs [][]byte) ([]byte, error) {
	bz, err := proto.Marshal(&multiRef{Refs: refs})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return bz, nil
}

func decodeRefs(bz []byte) ([][]byte, error) {
	if bz == nil {
		return nil, nil
	}
	var m multiRef
	if err := proto.Unmarshal(bz, &m); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return m.Refs, nil
}
