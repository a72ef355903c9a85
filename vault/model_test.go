package vault

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalSerialization(t *testing.T) {
	a := custodytest.NewAddress()
	b := custodytest.NewAddress()
	p := &Proposal{
		Proposer:  a,
		Recipient: custodytest.NewAddress(),
		Amount:    custody.NewAmount(12345),
		Approvals: []custody.Address{b, a},
	}
	require.NoError(t, p.Validate())

	bz, err := p.Marshal()
	require.NoError(t, err)

	var got Proposal
	require.NoError(t, got.Unmarshal(bz))
	assert.Equal(t, p.Proposer.String(), got.Proposer.String())
	assert.Equal(t, p.Recipient.String(), got.Recipient.String())
	assert.Equal(t, p.Amount, got.Amount)
	require.Len(t, got.Approvals, 2)
	assert.True(t, got.Approvals[0].Equals(b))
	assert.True(t, got.Approvals[1].Equals(a))
	assert.False(t, got.Executed)
}

func TestProposalValidate(t *testing.T) {
	a := custodytest.NewAddress()
	b := custodytest.NewAddress()
	c := custodytest.NewAddress()
	valid := func() *Proposal {
		return &Proposal{
			Proposer:  a,
			Recipient: custodytest.NewAddress(),
			Amount:    custody.NewAmount(1),
		}
	}

	cases := map[string]struct {
		mutate  func(*Proposal)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Proposal) {},
		},
		"zero amount": {
			mutate:  func(p *Proposal) { p.Amount = custody.NewAmount(0) },
			wantErr: errors.ErrInvalidAmount,
		},
		"missing recipient": {
			mutate:  func(p *Proposal) { p.Recipient = nil },
			wantErr: errors.ErrEmpty,
		},
		"duplicated approval": {
			mutate:  func(p *Proposal) { p.Approvals = []custody.Address{a, a} },
			wantErr: errors.ErrDuplicate,
		},
		"too many approvals": {
			mutate:  func(p *Proposal) { p.Approvals = []custody.Address{a, b, c, custodytest.NewAddress()} },
			wantErr: errors.ErrState,
		},
		"executed without approvals": {
			mutate:  func(p *Proposal) { p.Executed = true },
			wantErr: errors.ErrState,
		},
		"executed": {
			mutate: func(p *Proposal) {
				p.Approvals = []custody.Address{a, b, c}
				p.Executed = true
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			err := p.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestProposalCopyIsDeep(t *testing.T) {
	a := custodytest.NewAddress()
	p := &Proposal{
		Proposer:  a,
		Recipient: custodytest.NewAddress(),
		Amount:    custody.NewAmount(1),
		Approvals: []custody.Address{a},
	}
	cpy := p.Copy().(*Proposal)
	cpy.Approvals[0][0] ^= 0xff
	cpy.Approvals = append(cpy.Approvals, custodytest.NewAddress())

	assert.Len(t, p.Approvals, 1)
	assert.True(t, p.Approvals[0].Equals(a))
}

func TestVaultInfoSerialization(t *testing.T) {
	signers, err := NewSignerSet(custodytest.NewAddress(), custodytest.NewAddress(), custodytest.NewAddress())
	require.NoError(t, err)
	id := custodytest.SequenceID(7)
	info := NewVaultInfo(id, signers)
	require.NoError(t, info.Validate())
	assert.Equal(t, Condition(id).Address(), info.Address)

	bz, err := info.Marshal()
	require.NoError(t, err)
	var got VaultInfo
	require.NoError(t, got.Unmarshal(bz))
	require.NoError(t, got.Validate())
	for i := range signers {
		assert.True(t, signers[i].Equals(got.Signers[i]))
	}
	assert.True(t, info.Address.Equals(got.Address))
}
