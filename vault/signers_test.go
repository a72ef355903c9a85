package vault

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignerSet(t *testing.T) {
	a := custodytest.NewAddress()
	b := custodytest.NewAddress()
	c := custodytest.NewAddress()

	cases := map[string]struct {
		signers [3]custody.Address
		wantErr bool
	}{
		"distinct":        {signers: [3]custody.Address{a, b, c}},
		"duplicate first": {signers: [3]custody.Address{a, a, b}, wantErr: true},
		"duplicate last":  {signers: [3]custody.Address{a, b, b}, wantErr: true},
		"all the same":    {signers: [3]custody.Address{c, c, c}, wantErr: true},
		"missing signer":  {signers: [3]custody.Address{a, nil, c}, wantErr: true},
		"invalid address": {signers: [3]custody.Address{a, b, custody.Address("short")}, wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s, err := NewSignerSet(tc.signers[0], tc.signers[1], tc.signers[2])
			if tc.wantErr {
				require.True(t, ErrInvalidSignerSet.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			for _, addr := range tc.signers {
				assert.True(t, s.Contains(addr))
			}
		})
	}
}

func TestSignerSetFrom(t *testing.T) {
	a := custodytest.NewAddress()
	b := custodytest.NewAddress()

	_, err := SignerSetFrom([]custody.Address{a, b})
	assert.True(t, ErrInvalidSignerSet.Is(err))

	_, err = SignerSetFrom([]custody.Address{a, b, custodytest.NewAddress(), custodytest.NewAddress()})
	assert.True(t, ErrInvalidSignerSet.Is(err))

	s, err := SignerSetFrom([]custody.Address{a, b, custodytest.NewAddress()})
	require.NoError(t, err)
	assert.Len(t, s.Addresses(), SignerCount)
}

func TestSignerSetUnanimous(t *testing.T) {
	a := custodytest.NewAddress()
	b := custodytest.NewAddress()
	c := custodytest.NewAddress()
	s, err := NewSignerSet(a, b, c)
	require.NoError(t, err)

	assert.False(t, s.Unanimous(nil))
	assert.False(t, s.Unanimous([]custody.Address{a, b}))
	assert.False(t, s.Unanimous([]custody.Address{a, b, custodytest.NewAddress()}))
	assert.True(t, s.Unanimous([]custody.Address{c, a, b}))

	assert.False(t, s.Contains(nil))
	assert.False(t, s.Contains(custodytest.NewAddress()))
}
