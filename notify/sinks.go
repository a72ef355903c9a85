package notify

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// Nop drops all events.
type Nop struct{}

var _ custody.EventSink = Nop{}

func (Nop) Emit(context.Context, custody.Event) {}

// OrNop returns sink, or Nop if sink is nil.
func OrNop(sink custody.EventSink) custody.EventSink {
	if sink == nil {
		return Nop{}
	}
	return sink
}

// Recorder keeps every emitted event in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []custody.Event
}

var _ custody.EventSink = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ctx context.Context, ev custody.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns all recorded events in emission order.
func (r *Recorder) Events() []custody.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]custody.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Paths returns the path of every recorded event in emission order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Path()
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Logger writes every event to the logger found in the context.
type Logger struct{}

var _ custody.EventSink = Logger{}

func (Logger) Emit(ctx context.Context, ev custody.Event) {
	tags := ev.Tags()
	keyvals := make([]interface{}, 0, 2+2*len(tags))
	keyvals = append(keyvals, "path", ev.Path())
	for _, t := range tags {
		keyvals = append(keyvals, string(t.Key), string(t.Value))
	}
	custody.GetLogger(ctx).Info("event", keyvals...)
}

// Tagger collects the tags of all events, each event prefixed with an
// "action" tag holding the event path. It is safe for concurrent use.
type Tagger struct {
	mu   sync.Mutex
	tags []common.KVPair
}

var _ custody.EventSink = (*Tagger)(nil)

// NewTagger returns a tagger with no tags.
func NewTagger() *Tagger {
	return &Tagger{}
}

func (t *Tagger) Emit(ctx context.Context, ev custody.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tags = append(t.tags, custody.Tag("action", []byte(ev.Path())))
	t.tags = append(t.tags, ev.Tags()...)
}

// Tags returns all collected tags.
func (t *Tagger) Tags() common.KVPairs {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(common.KVPairs, len(t.tags))
	copy(out, t.tags)
	return out
}

// Reset drops all collected tags.
func (t *Tagger) Reset() {
	t.mu.Lock()
	t.tags = nil
	t.mu.Unlock()
}

// Multi passes every event to all of its sinks, in order.
type Multi []custody.EventSink

var _ custody.EventSink = Multi(nil)

// NewMulti combines given sinks. Nil sinks are skipped.
func NewMulti(sinks ...custody.EventSink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) Emit(ctx context.Context, ev custody.Event) {
	for _, s := range m {
		s.Emit(ctx, ev)
	}
}
