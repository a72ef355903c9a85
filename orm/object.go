package orm

import (
	"reflect"
)

// record is the Object kept by buckets.
type record struct {
	key   []byte
	value Model
}

// NewObject returns an object that stores value under key.
func NewObject(key []byte, value Model) Object {
	return record{key: key, value: value}
}

func (r record) Key() []byte  { return r.key }
func (r record) Value() Model { return r.value }

// newModel returns a zero value of the same type as m. m must be a
// pointer.
func newModel(m Model) Model {
	return reflect.New(reflect.TypeOf(m).Elem()).Interface().(Model)
}
