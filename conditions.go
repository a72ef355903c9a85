package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/custody/errors"
)

// AddressLength is the size of every valid address.
const AddressLength = 20

// Condition names an authority as "<ext>/<type>/<data>". ext and type
// are 3 to 8 characters from [a-zA-Z0-9_-], data is non empty and may hold
// any bytes. Vault accounts use the "custody/vault/<vault id>" condition.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// ParseCondition reads the "<ext>/<type>/<hex data>" form returned by
// String. An empty string is a nil condition.
func ParseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "condition %q", s)
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "condition data: %s", err)
	}
	c := NewCondition(parts[0], parts[1], data)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse splits the condition into its sections.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	parts := bytes.SplitN(c, []byte{'/'}, 3)
	if len(parts) != 3 || !isLabel(parts[0]) || !isLabel(parts[1]) || len(parts[2]) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInvalidInput, "condition %X", []byte(c))
	}
	return string(parts[0]), string(parts[1]), parts[2], nil
}

func isLabel(b []byte) bool {
	if len(b) < 3 || len(b) > 8 {
		return false
	}
	for _, r := range b {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

// Address returns the account address controlled by the condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String keeps both labels readable and prints the data as hex.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Address identifies an account. It is the truncated sha256 digest of the
// condition that controls the account.
type Address []byte

// NewAddress returns the address derived from data. Nil data gives a nil
// address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// ParseAddress reads an address in one of the forms:
//
//   <hex>
//   hex:<hex>
//   cond:<ext>/<type>/<hex data>
//
// The last one is converted to the address of the condition. An empty
// value is a nil address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	if value == "" {
		return nil, nil
	}

	switch format {
	case "hex":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "address hex: %s", err)
		}
		a := Address(raw)
		if err := a.Validate(); err != nil {
			return nil, err
		}
		return a, nil
	case "cond":
		c, err := ParseCondition(value)
		if err != nil {
			return nil, err
		}
		return c.Address(), nil
	default:
		return nil, errors.Wrapf(errors.ErrType, "address format %q", format)
	}
}

func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Clone returns a copy of the address that shares no memory.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(make(Address, 0, len(a)), a...)
}

func (a Address) Validate() error {
	switch len(a) {
	case 0:
		return errors.Wrap(errors.ErrEmpty, "address")
	case AddressLength:
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "address of %d bytes", len(a))
	}
}

// String returns upper case hex, or "(nil)" for an empty address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return fmt.Sprintf("%X", []byte(a))
}

// MarshalJSON writes the address as a hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%X", []byte(a)))
}

// UnmarshalJSON accepts every form understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "address must be a json string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
