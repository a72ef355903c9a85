package custody

// ReadOnlyKVStore gives read access to a sorted key value store. Keys must
// not be nil.
type ReadOnlyKVStore interface {
	// Get returns the value stored under key, or nil if there is none.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil bound
	// is open. The domain must not be modified while the iterator is in
	// use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks keys in [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a ReadOnlyKVStore that also accepts writes. Set and Delete
// must not retain or modify the given slices.
type KVStore interface {
	ReadOnlyKVStore
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator returns key value pairs one at a time.
//
//   it, err := db.Iterator(nil, nil)
//   ...
//   defer it.Release()
//   for {
//     key, value, err := it.Next()
//     if errors.ErrIteratorDone.Is(err) {
//       break
//     }
//     ...
//   }
type Iterator interface {
	// Next returns ErrIteratorDone once all pairs were consumed.
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stage writes in a KVCacheWrap. Cache wraps can be
// nested to build savepoints.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds writes that are visible through the wrap only. Write
// applies them to the store the wrap was created from, Discard drops
// them. The wrap must not be used after either call.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}
