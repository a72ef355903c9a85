package orm

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Sequence is a persistent counter stored under "_s.<bucket>:<name>".
// Issued values start at 1. Encoded values sort in numeric order.
type Sequence struct {
	key []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// Next increments the counter and returns the new value.
func (s Sequence) Next(db custody.KVStore) (uint64, error) {
	n, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	n++
	if err := db.Set(s.key, EncodeSequence(n)); err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return n, nil
}

// NextVal is Next with the result encoded, ready to be used as a key.
func (s Sequence) NextVal(db custody.KVStore) ([]byte, error) {
	n, err := s.Next(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// Latest returns the last issued value, or zero if none was issued yet.
func (s Sequence) Latest(db custody.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw)
}

func EncodeSequence(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

// DecodeSequence reads a value written by EncodeSequence. Nil is zero.
func DecodeSequence(bz []byte) (uint64, error) {
	switch len(bz) {
	case 0:
		return 0, nil
	case 8:
		return binary.BigEndian.Uint64(bz), nil
	default:
		return 0, errors.Wrapf(errors.ErrDatabase, "sequence value of %d bytes", len(bz))
	}
}
