package custody

import (
	"context"

	"github.com/tendermint/tendermint/libs/common"
)

// Event is a notification about a successful state transition.
//
// Path identifies the kind of event, for example "vault/proposal_created".
// Tags renders the event attributes as key/value pairs that indexers can
// search on.
type Event interface {
	Path() string
	Tags() []common.KVPair
}

// EventSink receives events after the state change they describe was
// committed. Delivery is fire-and-forget: a sink cannot fail an
// operation, and a dropped event affects only observability.
type EventSink interface {
	Emit(ctx context.Context, ev Event)
}

// Tag is a helper to build a single event tag.
func Tag(key string, value []byte) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: value,
	}
}
