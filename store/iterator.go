package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/custody/errors"
)

// ascend returns the entries with keys in [start, end) in ascending order.
// A nil bound is open.
func ascend(t *btree.BTree, start, end []byte) []entry {
	var res []entry
	t.AscendGreaterOrEqual(entry{key: start}, func(i btree.Item) bool {
		e := i.(entry)
		if end != nil && bytes.Compare(e.key, end) >= 0 {
			return false
		}
		res = append(res, e)
		return true
	})
	return res
}

// descend returns the entries with keys in [start, end) in descending
// order.
func descend(t *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(i btree.Item) bool {
		e := i.(entry)
		if start != nil && bytes.Compare(e.key, start) < 0 {
			return false
		}
		res = append(res, e)
		return true
	}
	if end == nil {
		t.Descend(collect)
	} else {
		t.DescendLessOrEqual(entry{key: end}, func(i btree.Item) bool {
			// end is exclusive
			if bytes.Equal(i.(entry).key, end) {
				return true
			}
			return collect(i)
		})
	}
	return res
}

// mergeIterator walks the entries of a cache together with the parent
// iterator. An entry replaces the parent pair with the same key and a
// deleted entry hides it. A nil parent is empty.
type mergeIterator struct {
	own       []entry
	parent    Iterator
	ascending bool

	next    *entry // lookahead of the parent
	drained bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(own []entry, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		own:       own,
		parent:    parent,
		ascending: ascending,
		drained:   parent == nil,
	}
}

func (m *mergeIterator) peekParent() (*entry, error) {
	if m.drained || m.next != nil {
		return m.next, nil
	}
	key, value, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.drained = true
		return nil, nil
	case err != nil:
		return nil, err
	}
	m.next = &entry{key: key, value: value}
	return m.next, nil
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		p, err := m.peekParent()
		if err != nil {
			return nil, nil, err
		}
		if len(m.own) == 0 && p == nil {
			return nil, nil, errors.ErrIteratorDone
		}

		if len(m.own) == 0 || (p != nil && m.precedes(p.key, m.own[0].key)) {
			m.next = nil
			return p.key, p.value, nil
		}

		e := m.own[0]
		m.own = m.own[1:]
		if p != nil && bytes.Equal(p.key, e.key) {
			m.next = nil
		}
		if e.deleted {
			continue
		}
		return e.key, e.value, nil
	}
}

func (m *mergeIterator) precedes(a, b []byte) bool {
	c := bytes.Compare(a, b)
	if m.ascending {
		return c < 0
	}
	return c > 0
}

func (m *mergeIterator) Release() {
	m.own = nil
	m.next = nil
	if m.parent != nil {
		m.parent.Release()
	}
}
