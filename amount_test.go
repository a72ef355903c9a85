package custody_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
		want    string
	}{
		"zero":     {raw: "0", want: "0"},
		"small":    {raw: "42", want: "42"},
		"wei":      {raw: "1000000000000000000", want: "1000000000000000000"},
		"max":      {raw: maxUint256, want: maxUint256},
		"overflow": {raw: maxUint256 + "0", wantErr: errors.ErrOverflow},
		"negative": {raw: "-1", wantErr: errors.ErrInvalidAmount},
		"garbage":  {raw: "12a", wantErr: errors.ErrInvalidAmount},
		"empty":    {raw: "", wantErr: errors.ErrInvalidAmount},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := custody.ParseAmount(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	max, err := custody.ParseAmount(maxUint256)
	require.NoError(t, err)

	sum, err := custody.NewAmount(2).Add(custody.NewAmount(3))
	require.NoError(t, err)
	assert.Equal(t, "5", sum.String())

	_, err = max.Add(custody.NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)

	diff, err := custody.NewAmount(5).Sub(custody.NewAmount(5))
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	_, err = custody.NewAmount(1).Sub(custody.NewAmount(2))
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "got %+v", err)

	assert.Equal(t, -1, custody.NewAmount(1).Cmp(custody.NewAmount(2)))
	assert.Equal(t, 0, custody.NewAmount(2).Cmp(custody.NewAmount(2)))
	assert.Equal(t, 1, max.Cmp(custody.NewAmount(2)))
	assert.True(t, custody.NewAmount(7).Equals(custody.NewAmount(7)))
}

func TestAmountBytes(t *testing.T) {
	a := custody.NewAmount(258)
	bz := a.Bytes()
	require.Len(t, bz, 32)
	assert.Equal(t, byte(1), bz[30])
	assert.Equal(t, byte(2), bz[31])

	back, err := custody.AmountFromBytes(bz)
	require.NoError(t, err)
	assert.True(t, a.Equals(back))

	empty, err := custody.AmountFromBytes(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = custody.AmountFromBytes(make([]byte, 33))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestAmountJSON(t *testing.T) {
	bz, err := json.Marshal(custody.NewAmount(123))
	require.NoError(t, err)
	assert.Equal(t, `"123"`, string(bz))

	cases := map[string]struct {
		json    string
		wantErr *errors.Error
		want    string
	}{
		"string":      {json: `"123"`, want: "123"},
		"number":      {json: `77`, want: "77"},
		"huge string": {json: `"` + maxUint256 + `"`, want: maxUint256},
		"negative":    {json: `-4`, wantErr: errors.ErrInvalidAmount},
		"fraction":    {json: `1.5`, wantErr: errors.ErrInvalidAmount},
		"object":      {json: `{}`, wantErr: errors.ErrInvalidAmount},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Amount
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.want, a.String())
			}
		})
	}
}
