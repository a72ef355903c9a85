package store

import "github.com/iov-one/custody"

type (
	ReadOnlyKVStore  = custody.ReadOnlyKVStore
	KVStore          = custody.KVStore
	Iterator         = custody.Iterator
	CacheableKVStore = custody.CacheableKVStore
	KVCacheWrap      = custody.KVCacheWrap
)
