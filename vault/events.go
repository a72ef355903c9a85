package vault

import (
	"strconv"

	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/common"
)

// Event paths emitted by a vault.
const (
	PathProposalCreated  = "vault/proposal_created"
	PathProposalApproved = "vault/proposal_approved"
	PathProposalExecuted = "vault/proposal_executed"
)

// ProposalCreated is emitted when a new proposal is recorded.
type ProposalCreated struct {
	Vault      custody.Address
	ProposalID uint64
	Proposer   custody.Address
	Recipient  custody.Address
	Amount     custody.Amount
}

var _ custody.Event = ProposalCreated{}

func (ProposalCreated) Path() string { return PathProposalCreated }

func (e ProposalCreated) Tags() []common.KVPair {
	return []common.KVPair{
		addrTag("vault", e.Vault),
		idTag(e.ProposalID),
		addrTag("proposer", e.Proposer),
		addrTag("recipient", e.Recipient),
		custody.Tag("amount", []byte(e.Amount.String())),
	}
}

// ProposalApproved is emitted when a signer approves a proposal for the
// first time. Approvals is the number of approvals after this one.
type ProposalApproved struct {
	Vault      custody.Address
	ProposalID uint64
	Signer     custody.Address
	Approvals  int
}

var _ custody.Event = ProposalApproved{}

func (ProposalApproved) Path() string { return PathProposalApproved }

func (e ProposalApproved) Tags() []common.KVPair {
	return []common.KVPair{
		addrTag("vault", e.Vault),
		idTag(e.ProposalID),
		addrTag("signer", e.Signer),
		custody.Tag("approvals", []byte(strconv.Itoa(e.Approvals))),
	}
}

// ProposalExecuted is emitted after the proposal amount was paid out.
type ProposalExecuted struct {
	Vault      custody.Address
	ProposalID uint64
	Caller     custody.Address
	Recipient  custody.Address
	Amount     custody.Amount
}

var _ custody.Event = ProposalExecuted{}

func (ProposalExecuted) Path() string { return PathProposalExecuted }

func (e ProposalExecuted) Tags() []common.KVPair {
	return []common.KVPair{
		addrTag("vault", e.Vault),
		idTag(e.ProposalID),
		addrTag("caller", e.Caller),
		addrTag("recipient", e.Recipient),
		custody.Tag("amount", []byte(e.Amount.String())),
	}
}

func addrTag(key string, a custody.Address) common.KVPair {
	return custody.Tag(key, []byte(a.String()))
}

func idTag(id uint64) common.KVPair {
	return custody.Tag("proposal", []byte(strconv.FormatUint(id, 10)))
}
