package vault

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// ProposalBucketName is where a vault stores its proposals.
	ProposalBucketName = "proposals"

	// InfoBucketName is where the registry stores vault records.
	InfoBucketName = "vaults"
)

// Condition calculates the condition of a vault given its ID. The vault
// address is derived from it.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("custody", "vault", id)
}

// Proposal is a request to move Amount from the vault to Recipient.
type Proposal struct {
	Proposer  custody.Address
	Recipient custody.Address
	Amount    custody.Amount
	// Approvals holds every signer that approved the proposal, in the
	// order the approvals were given. There are no duplicates.
	Approvals []custody.Address
	Executed  bool
}

var _ orm.Model = (*Proposal)(nil)

type proposalPB struct {
	Proposer  []byte   `protobuf:"bytes,1,opt,name=proposer,proto3" json:"proposer,omitempty"`
	Recipient []byte   `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount    []byte   `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Approvals [][]byte `protobuf:"bytes,4,rep,name=approvals,proto3" json:"approvals,omitempty"`
	Executed  bool     `protobuf:"varint,5,opt,name=executed,proto3" json:"executed,omitempty"`
}

func (m *proposalPB) Reset()         { *m = proposalPB{} }
func (m *proposalPB) String() string { return proto.CompactTextString(m) }
func (*proposalPB) ProtoMessage()    {}

// Marshal serializes the proposal.
func (p *Proposal) Marshal() ([]byte, error) {
	pb := proposalPB{
		Proposer:  p.Proposer,
		Recipient: p.Recipient,
		Amount:    p.Amount.Bytes(),
		Approvals: make([][]byte, len(p.Approvals)),
		Executed:  p.Executed,
	}
	for i, a := range p.Approvals {
		pb.Approvals[i] = a
	}
	return proto.Marshal(&pb)
}

// Unmarshal loads the proposal from its serialized form.
func (p *Proposal) Unmarshal(bz []byte) error {
	var pb proposalPB
	if err := proto.Unmarshal(bz, &pb); err != nil {
		return err
	}
	amount, err := custody.AmountFromBytes(pb.Amount)
	if err != nil {
		return err
	}
	p.Proposer = pb.Proposer
	p.Recipient = pb.Recipient
	p.Amount = amount
	p.Executed = pb.Executed
	p.Approvals = nil
	if len(pb.Approvals) > 0 {
		p.Approvals = make([]custody.Address, len(pb.Approvals))
		for i, a := range pb.Approvals {
			p.Approvals[i] = a
		}
	}
	return nil
}

// Validate ensures the proposal is valid.
func (p *Proposal) Validate() error {
	if err := p.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if err := p.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if p.Amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if len(p.Approvals) > SignerCount {
		return errors.Wrapf(errors.ErrState, "%d approvals", len(p.Approvals))
	}
	for i, a := range p.Approvals {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "approval %d", i)
		}
		if containsAddress(p.Approvals[:i], a) {
			return errors.Wrapf(errors.ErrDuplicate, "approval %s", a)
		}
	}
	if p.Executed && len(p.Approvals) != SignerCount {
		return errors.Wrap(errors.ErrState, "executed without all approvals")
	}
	return nil
}

// Copy returns a deep copy of the proposal.
func (p *Proposal) Copy() orm.Model {
	return p.clone()
}

func (p *Proposal) clone() *Proposal {
	cpy := &Proposal{
		Proposer:  p.Proposer.Clone(),
		Recipient: p.Recipient.Clone(),
		Amount:    p.Amount,
		Executed:  p.Executed,
	}
	if p.Approvals != nil {
		cpy.Approvals = make([]custody.Address, len(p.Approvals))
		for i, a := range p.Approvals {
			cpy.Approvals[i] = a.Clone()
		}
	}
	return cpy
}

// HasApproval returns true if signer has approved the proposal.
func (p *Proposal) HasApproval(signer custody.Address) bool {
	return containsAddress(p.Approvals, signer)
}

// NewProposalBucket returns a bucket of proposals keyed by proposal ID.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket(ProposalBucketName, &Proposal{})
}

// VaultInfo is the record of a vault kept by the registry.
type VaultInfo struct {
	Signers SignerSet
	Address custody.Address
}

var _ orm.Model = (*VaultInfo)(nil)

type vaultInfoPB struct {
	Signers [][]byte `protobuf:"bytes,1,rep,name=signers,proto3" json:"signers,omitempty"`
	Address []byte   `protobuf:"bytes,2,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *vaultInfoPB) Reset()         { *m = vaultInfoPB{} }
func (m *vaultInfoPB) String() string { return proto.CompactTextString(m) }
func (*vaultInfoPB) ProtoMessage()    {}

// NewVaultInfo returns the record of a vault with given ID.
func NewVaultInfo(id []byte, signers SignerSet) *VaultInfo {
	return &VaultInfo{
		Signers: signers,
		Address: Condition(id).Address(),
	}
}

// Marshal serializes the record.
func (v *VaultInfo) Marshal() ([]byte, error) {
	pb := vaultInfoPB{
		Signers: make([][]byte, 0, SignerCount),
		Address: v.Address,
	}
	for _, s := range v.Signers {
		pb.Signers = append(pb.Signers, s)
	}
	return proto.Marshal(&pb)
}

// Unmarshal loads the record from its serialized form.
func (v *VaultInfo) Unmarshal(bz []byte) error {
	var pb vaultInfoPB
	if err := proto.Unmarshal(bz, &pb); err != nil {
		return err
	}
	if len(pb.Signers) != SignerCount {
		return errors.Wrapf(ErrInvalidSignerSet, "%d signers stored", len(pb.Signers))
	}
	for i, s := range pb.Signers {
		v.Signers[i] = s
	}
	v.Address = pb.Address
	return nil
}

// Validate ensures the record is valid.
func (v *VaultInfo) Validate() error {
	if err := v.Signers.Validate(); err != nil {
		return err
	}
	if err := v.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

// Copy returns a deep copy of the record.
func (v *VaultInfo) Copy() orm.Model {
	cpy := &VaultInfo{Address: v.Address.Clone()}
	for i, s := range v.Signers {
		cpy.Signers[i] = s.Clone()
	}
	return cpy
}

// NewInfoBucket returns a bucket of vault records keyed by vault ID,
// indexed by vault address and by signer.
func NewInfoBucket() orm.ModelBucket {
	return orm.NewModelBucket(InfoBucketName, &VaultInfo{},
		orm.WithIDSequence(InfoSequence()),
		orm.WithIndex("address", idxAddress, true),
		orm.WithMultiKeyIndex("signer", idxSigners, false),
	)
}

// InfoSequence returns the sequence that vault IDs are taken from.
func InfoSequence() orm.Sequence {
	return orm.NewSequence(InfoBucketName, "id")
}

func toVaultInfo(obj orm.Object) (*VaultInfo, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	info, ok := obj.Value().(*VaultInfo)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only take index of VaultInfo")
	}
	return info, nil
}

func idxAddress(obj orm.Object) ([]byte, error) {
	info, err := toVaultInfo(obj)
	if err != nil {
		return nil, err
	}
	return info.Address, nil
}

func idxSigners(obj orm.Object) ([][]byte, error) {
	info, err := toVaultInfo(obj)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, SignerCount)
	for _, s := range info.Signers {
		keys = append(keys, s)
	}
	return keys, nil
}
