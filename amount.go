package custody

import (
	"encoding/json"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/iov-one/custody/errors"
)

// Amount is an unsigned quantity of value. It is wide enough to hold
// wei denominated balances.
//
// Amount is a value type, all operations return a new instance.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of n units.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount reads a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "cannot parse %q", s)
	}
	if b.Sign() < 0 {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "negative amount %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return Amount{v: *v}, nil
}

// AmountFromBytes decodes a big endian representation as produced by Bytes.
func AmountFromBytes(bz []byte) (Amount, error) {
	if len(bz) > 32 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%d bytes amount", len(bz))
	}
	var a Amount
	a.v.SetBytes(bz)
	return a, nil
}

// Bytes returns the fixed size, 32 byte, big endian representation.
func (a Amount) Bytes() []byte {
	bz := a.v.Bytes32()
	return bz[:]
}

// IsZero returns true if the amount holds no value.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp compares two amounts and returns -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.v.Eq(&b.v)
}

// Add returns the sum of both amounts or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var sum Amount
	sum.v.Add(&a.v, &b.v)
	if sum.v.Lt(&a.v) {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return sum, nil
}

// Sub returns a - b. It fails with ErrInsufficientFunds when b is greater
// than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.v.Lt(&b.v) {
		return Amount{}, errors.Wrapf(errors.ErrInsufficientFunds, "%s - %s", a, b)
	}
	var diff Amount
	diff.v.Sub(&a.v, &b.v)
	return diff, nil
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.v.ToBig().String()
}

// MarshalJSON encodes the amount as a decimal string so that no precision
// is lost by JSON number parsers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, "cannot decode json")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
