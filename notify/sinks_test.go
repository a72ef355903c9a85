package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

type testEvent struct {
	path string
	val  string
}

func (e testEvent) Path() string { return e.path }

func (e testEvent) Tags() []common.KVPair {
	return []common.KVPair{custody.Tag("val", []byte(e.val))}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	r.Emit(ctx, testEvent{path: "a/one", val: "1"})
	r.Emit(ctx, testEvent{path: "b/two", val: "2"})

	assert.Equal(t, []string{"a/one", "b/two"}, r.Paths())
	require.Len(t, r.Events(), 2)
	assert.Equal(t, testEvent{path: "b/two", val: "2"}, r.Events()[1])

	r.Reset()
	assert.Empty(t, r.Events())
	assert.Empty(t, r.Paths())
}

func TestTagger(t *testing.T) {
	tg := NewTagger()
	ctx := context.Background()

	tg.Emit(ctx, testEvent{path: "a/one", val: "1"})
	tg.Emit(ctx, testEvent{path: "b/two", val: "2"})

	want := common.KVPairs{
		custody.Tag("action", []byte("a/one")),
		custody.Tag("val", []byte("1")),
		custody.Tag("action", []byte("b/two")),
		custody.Tag("val", []byte("2")),
	}
	assert.Equal(t, want, tg.Tags())

	tg.Reset()
	assert.Empty(t, tg.Tags())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := custody.WithLogger(context.Background(), log.NewTMLogger(&buf))

	Logger{}.Emit(ctx, testEvent{path: "a/one", val: "xyz"})

	out := buf.String()
	assert.True(t, strings.Contains(out, "path=a/one"), out)
	assert.True(t, strings.Contains(out, "val=xyz"), out)
}

func TestMulti(t *testing.T) {
	r1 := NewRecorder()
	r2 := NewRecorder()
	m := NewMulti(r1, nil, r2, Nop{})
	assert.Len(t, m, 3)

	m.Emit(context.Background(), testEvent{path: "a/one"})
	assert.Equal(t, []string{"a/one"}, r1.Paths())
	assert.Equal(t, []string{"a/one"}, r2.Paths())
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))
	r := NewRecorder()
	assert.Equal(t, r, OrNop(r))
}
