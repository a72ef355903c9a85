package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/custody/errors"
)

// degree of every btree created by this package.
const degree = 2

// MemStore returns an empty in-memory store. The returned store keeps all
// data in a btree and has no parent, so it cannot be written or
// discarded. Use CacheWrap to stage changes on top of it.
func MemStore() CacheableKVStore {
	return &cache{
		tree: btree.New(degree),
		free: btree.NewFreeList(btree.DefaultFreeListSize),
	}
}

// cache keeps its own changes in a btree and reads everything else from
// the parent. A root cache has no parent and holds the data itself.
type cache struct {
	parent KVStore
	tree   *btree.BTree
	free   *btree.FreeList
}

var _ KVCacheWrap = (*cache)(nil)

func (c *cache) isRoot() bool {
	return c.parent == nil
}

// CacheWrap returns a cache that reads through to c and writes to c
// only when its Write method is called.
func (c *cache) CacheWrap() KVCacheWrap {
	return &cache{
		parent: c,
		tree:   btree.NewWithFreeList(degree, c.free),
		free:   c.free,
	}
}

// Write applies all staged changes to the parent in key order and empties
// the cache.
func (c *cache) Write() error {
	if c.isRoot() {
		return errors.Wrap(errors.ErrHuman, "memory store has no parent to write to")
	}
	var err error
	c.tree.Ascend(func(i btree.Item) bool {
		e := i.(entry)
		if e.deleted {
			err = c.parent.Delete(e.key)
		} else {
			err = c.parent.Set(e.key, e.value)
		}
		return err == nil
	})
	c.clear()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Discard drops all staged changes.
func (c *cache) Discard() {
	if c.isRoot() {
		return
	}
	c.clear()
}

// clear returns all nodes to the shared free list.
func (c *cache) clear() {
	for c.tree.DeleteMin() != nil {
	}
}

func (c *cache) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(entry{
		key:   copyBytes(key),
		value: append([]byte{}, value...),
	})
	return nil
}

func (c *cache) Delete(key []byte) error {
	if c.isRoot() {
		c.tree.Delete(entry{key: key})
		return nil
	}
	// A tombstone hides the parent value until the cache is written.
	c.tree.ReplaceOrInsert(entry{key: copyBytes(key), deleted: true})
	return nil
}

func (c *cache) Get(key []byte) ([]byte, error) {
	if e, ok := c.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	if c.isRoot() {
		return nil, nil
	}
	return c.parent.Get(key)
}

func (c *cache) Has(key []byte) (bool, error) {
	if e, ok := c.lookup(key); ok {
		return !e.deleted, nil
	}
	if c.isRoot() {
		return false, nil
	}
	return c.parent.Has(key)
}

func (c *cache) lookup(key []byte) (entry, bool) {
	i := c.tree.Get(entry{key: key})
	if i == nil {
		return entry{}, false
	}
	return i.(entry), true
}

func (c *cache) Iterator(start, end []byte) (Iterator, error) {
	var parent Iterator
	if !c.isRoot() {
		it, err := c.parent.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		parent = it
	}
	return newMergeIterator(ascend(c.tree, start, end), parent, true), nil
}

func (c *cache) ReverseIterator(start, end []byte) (Iterator, error) {
	var parent Iterator
	if !c.isRoot() {
		it, err := c.parent.ReverseIterator(start, end)
		if err != nil {
			return nil, err
		}
		parent = it
	}
	return newMergeIterator(descend(c.tree, start, end), parent, false), nil
}

// entry is the only item type stored in the btree.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
