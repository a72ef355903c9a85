package vault

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// SignerCount is the number of signers of every vault. All of them must
// approve a proposal before it can be executed.
const SignerCount = 3

// SignerSet holds the addresses authorized to propose and approve
// transfers. It never changes after the vault is created.
type SignerSet [SignerCount]custody.Address

// NewSignerSet returns a signer set made of given addresses. All addresses
// must be valid and distinct.
func NewSignerSet(a, b, c custody.Address) (SignerSet, error) {
	s := SignerSet{a.Clone(), b.Clone(), c.Clone()}
	if err := s.Validate(); err != nil {
		return SignerSet{}, err
	}
	return s, nil
}

// SignerSetFrom builds a signer set from a slice that must hold exactly
// SignerCount addresses.
func SignerSetFrom(addrs []custody.Address) (SignerSet, error) {
	if len(addrs) != SignerCount {
		return SignerSet{}, errors.Wrapf(ErrInvalidSignerSet, "want %d signers, got %d", SignerCount, len(addrs))
	}
	return NewSignerSet(addrs[0], addrs[1], addrs[2])
}

// Validate returns an error if any of the signers is not a valid address
// or the same address is used more than once.
func (s SignerSet) Validate() error {
	for i, a := range s {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidSignerSet, "signer %d: %s", i, err)
		}
		for j := 0; j < i; j++ {
			if a.Equals(s[j]) {
				return errors.Wrapf(ErrInvalidSignerSet, "signer %s used twice", a)
			}
		}
	}
	return nil
}

// Contains returns true if addr is one of the signers.
func (s SignerSet) Contains(addr custody.Address) bool {
	if len(addr) == 0 {
		return false
	}
	for _, a := range s {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Unanimous returns true if every signer is present in approvals.
func (s SignerSet) Unanimous(approvals []custody.Address) bool {
	for _, a := range s {
		if !containsAddress(approvals, a) {
			return false
		}
	}
	return true
}

// Addresses returns a copy of the signers as a slice.
func (s SignerSet) Addresses() []custody.Address {
	out := make([]custody.Address, SignerCount)
	for i, a := range s {
		out[i] = a.Clone()
	}
	return out
}

func containsAddress(addrs []custody.Address, addr custody.Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
