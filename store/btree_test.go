package store

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	// base is the root of our data, we can layer on top and
	// all queries should work
	base := MemStore()

	// make sure the btree is empty at start but returns results
	// that are writen to it
	k, v := []byte("french"), []byte("fry")
	assertGet(t, base, k, nil)
	require.NoError(t, base.Set(k, v))
	assertGet(t, base, k, v)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertGet(t, cache, k, v)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertGet(t, cache, k2, v2)
	assertGet(t, base, k2, nil)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertGet(t, base, k, v)
	assertGet(t, base, k2, v2)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	require.NoError(t, c2.Delete(k2))
	assertGet(t, c2, k3, v3)
	assertGet(t, c2, k2, nil)
	c2.Discard()
	assertGet(t, base, k3, nil)
	assertGet(t, base, k2, v2)

	// deletes are only written with the cache
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assertGet(t, base, k, v)
	require.NoError(t, c3.Write())
	assertGet(t, base, k, nil)
}

func TestBTreeCacheNested(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("b"), []byte("2")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Set([]byte("c"), []byte("3")))
	require.NoError(t, inner.Write())

	assertGet(t, outer, []byte("c"), []byte("3"))
	assertGet(t, base, []byte("c"), nil)

	outer.Discard()
	assertGet(t, base, []byte("b"), nil)
	assertGet(t, base, []byte("c"), nil)
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("e"), []byte("cache-e")))
	require.NoError(t, cache.Delete([]byte("c")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []pair
	}{
		"full range": {
			want: []pair{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("g"), Value: []byte("base-g")},
			},
		},
		"bounded range, end exclusive": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []pair{
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
			},
		},
		"reverse full range": {
			reverse: true,
			want: []pair{
				{Key: []byte("g"), Value: []byte("base-g")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
		"reverse bounded range": {
			start:   []byte("b"),
			end:     []byte("g"),
			reverse: true,
			want: []pair{
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("b"), Value: []byte("cache-b")},
			},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, consume(t, it))
		})
	}
}

func TestMemStoreRoot(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	require.NoError(t, db.Set([]byte("b"), nil))
	assertGet(t, db, []byte("b"), []byte{})

	wrap, ok := db.(KVCacheWrap)
	require.True(t, ok)
	err := wrap.Write()
	assert.True(t, errors.ErrHuman.Is(err), "got %+v", err)
	wrap.Discard()
	assertGet(t, db, []byte("a"), []byte("1"))

	require.NoError(t, db.Delete([]byte("a")))
	assertGet(t, db, []byte("a"), nil)
	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []pair{{Key: []byte("b"), Value: []byte{}}}, consume(t, it))
}

func TestBTreeCacheDeleteThroughLayers(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	require.NoError(t, inner.Delete([]byte("a")))
	assertGet(t, outer, []byte("a"), []byte("1"))

	require.NoError(t, inner.Write())
	assertGet(t, outer, []byte("a"), nil)
	assertGet(t, base, []byte("a"), []byte("1"))

	require.NoError(t, outer.Write())
	assertGet(t, base, []byte("a"), nil)
}

func TestBTreeCacheCopiesInput(t *testing.T) {
	base := MemStore()
	key, value := []byte("key"), []byte("value")
	require.NoError(t, base.Set(key, value))
	key[0], value[0] = 'x', 'x'
	assertGet(t, base, []byte("key"), []byte("value"))
}

func assertGet(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	has, err := db.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}

func consume(t testing.TB, it Iterator) []pair {
	t.Helper()
	defer it.Release()

	var res []pair
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, pair{Key: k, Value: v})
	}
}

type pair struct {
	Key   []byte
	Value []byte
}
