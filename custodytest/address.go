package custodytest

import (
	"sync/atomic"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/orm"
)

var condCounter uint64

// NewCondition returns a condition that was never returned before by
// this function.
func NewCondition() custody.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	return custody.NewCondition("test", "seq", SequenceID(n))
}

// NewAddress returns an address that was never returned before by this
// function.
func NewAddress() custody.Address {
	return NewCondition().Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// custody.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()

	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns the key a bucket sequence issues as its n-th value.
func SequenceID(n uint64) []byte {
	return orm.EncodeSequence(n)
}
