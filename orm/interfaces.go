package orm

import (
	"github.com/iov-one/custody"
)

// Model is an entity that can be kept in a bucket.
type Model interface {
	custody.Persistent
	custody.Validater
	// Copy returns a deep copy of the model that shares no memory.
	Copy() Model
}

// Object is a model together with its primary key. Indexers receive
// objects.
type Object interface {
	Key() []byte
	Value() Model
}
