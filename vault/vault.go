package vault

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/notify"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
	"github.com/tendermint/tendermint/libs/log"
)

// Config holds the collaborators of a vault.
type Config struct {
	// Ledger holds the vault funds. Required.
	Ledger ledger.Ledger
	// Sink receives vault events. Nil drops all events.
	Sink custody.EventSink
	// Store keeps the proposal log. Nil means a new in-memory store.
	Store custody.CacheableKVStore
}

// Vault holds funds on behalf of three signers. It is safe for
// concurrent use, all operations on a single vault are serialized.
type Vault struct {
	mu sync.Mutex

	id      []byte
	address custody.Address
	signers SignerSet

	ledger    ledger.Ledger
	sink      custody.EventSink
	db        custody.CacheableKVStore
	proposals orm.ModelBucket
	seq       orm.Sequence
}

// New returns a vault with given ID and signers. The vault address is
// derived from the ID. If the ledger is a Custodian, the vault account is
// held so that only the vault can pay out of it.
func New(id []byte, signers SignerSet, conf Config) (*Vault, error) {
	if len(id) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "vault id")
	}
	if err := signers.Validate(); err != nil {
		return nil, err
	}
	if conf.Ledger == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "ledger")
	}
	db := conf.Store
	if db == nil {
		db = store.MemStore()
	}
	address := Condition(id).Address()
	if c, ok := conf.Ledger.(ledger.Custodian); ok {
		c.Hold(address)
	}
	return &Vault{
		id:        append([]byte(nil), id...),
		address:   address,
		signers:   signers,
		ledger:    conf.Ledger,
		sink:      notify.OrNop(conf.Sink),
		db:        db,
		proposals: NewProposalBucket(),
		seq:       orm.NewSequence(ProposalBucketName, "id"),
	}, nil
}

// ID returns the vault ID assigned by the registry.
func (v *Vault) ID() []byte {
	return append([]byte(nil), v.id...)
}

// Address returns the account address of the vault.
func (v *Vault) Address() custody.Address {
	return v.address.Clone()
}

// Signers returns the signers of the vault.
func (v *Vault) Signers() SignerSet {
	var cpy SignerSet
	for i, s := range v.signers {
		cpy[i] = s.Clone()
	}
	return cpy
}

// IsSigner returns true if addr is one of the vault signers.
func (v *Vault) IsSigner(addr custody.Address) bool {
	return v.signers.Contains(addr)
}

// Propose records a request to pay amount to recipient and returns its
// ID. Only a signer can propose. The new proposal has no approvals, not
// even the proposer's.
func (v *Vault) Propose(ctx context.Context, caller, recipient custody.Address, amount custody.Amount) (uint64, error) {
	id, err := v.propose(ctx, caller, recipient, amount)
	if err != nil {
		return 0, err
	}
	v.sink.Emit(ctx, ProposalCreated{
		Vault:      v.Address(),
		ProposalID: id,
		Proposer:   caller.Clone(),
		Recipient:  recipient.Clone(),
		Amount:     amount,
	})
	return id, nil
}

func (v *Vault) propose(ctx context.Context, caller, recipient custody.Address, amount custody.Amount) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	logger := v.logger(ctx)

	if !v.signers.Contains(caller) {
		return 0, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", caller)
	}
	if amount.IsZero() {
		return 0, errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if len(recipient) != custody.AddressLength {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "recipient %s", recipient)
	}
	if recipient.Equals(v.address) {
		return 0, errors.Wrap(ErrSelfTransfer, "recipient is the vault")
	}

	var id uint64
	err := v.atomic(func(db custody.KVStore) error {
		n, err := v.seq.Next(db)
		if err != nil {
			return errors.Wrap(err, "proposal sequence")
		}
		id = n - 1
		p := &Proposal{
			Proposer:  caller.Clone(),
			Recipient: recipient.Clone(),
			Amount:    amount,
		}
		_, err = v.proposals.Put(db, proposalKey(id), p)
		return err
	})
	if err != nil {
		logger.Error("cannot store proposal", "signer", caller, "err", err)
		return 0, err
	}
	logger.Debug("proposal created", "proposal", id, "signer", caller, "amount", amount)
	return id, nil
}

// Approve adds the caller approval to the proposal. Approving a proposal
// more than once is allowed and changes nothing.
func (v *Vault) Approve(ctx context.Context, caller custody.Address, id uint64) error {
	approvals, err := v.approve(ctx, caller, id)
	if err != nil || approvals == 0 {
		return err
	}
	v.sink.Emit(ctx, ProposalApproved{
		Vault:      v.Address(),
		ProposalID: id,
		Signer:     caller.Clone(),
		Approvals:  approvals,
	})
	return nil
}

// approve returns the number of approvals after a new approval was added,
// or zero if the caller had already approved.
func (v *Vault) approve(ctx context.Context, caller custody.Address, id uint64) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	logger := v.logger(ctx)

	if !v.signers.Contains(caller) {
		return 0, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", caller)
	}
	p, err := v.load(v.db, id)
	if err != nil {
		return 0, err
	}
	if p.Executed {
		return 0, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	if p.HasApproval(caller) {
		logger.Debug("approval already given", "proposal", id, "signer", caller)
		return 0, nil
	}

	p.Approvals = append(p.Approvals, caller.Clone())
	if err := v.save(id, p); err != nil {
		logger.Error("cannot store approval", "proposal", id, "signer", caller, "err", err)
		return 0, err
	}
	logger.Debug("proposal approved", "proposal", id, "signer", caller, "approvals", len(p.Approvals))
	return len(p.Approvals), nil
}

// Execute pays out an approved proposal. Anyone can execute a proposal
// once all signers approved it.
//
// The proposal is marked as executed before the ledger is asked to pay.
// If the payment fails the previous record is restored. If even that
// fails, the proposal stays executed without a payout and an error is
// logged: a proposal is never paid twice.
func (v *Vault) Execute(ctx context.Context, caller custody.Address, id uint64) error {
	p, err := v.execute(ctx, id)
	if err != nil {
		return err
	}
	v.sink.Emit(ctx, ProposalExecuted{
		Vault:      v.Address(),
		ProposalID: id,
		Caller:     caller.Clone(),
		Recipient:  p.Recipient.Clone(),
		Amount:     p.Amount,
	})
	return nil
}

func (v *Vault) execute(ctx context.Context, id uint64) (*Proposal, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	logger := v.logger(ctx)

	p, err := v.load(v.db, id)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", id)
	}
	if !v.signers.Unanimous(p.Approvals) {
		return nil, errors.Wrapf(ErrInsufficientApprovals, "need all %d approvals, have %d", SignerCount, len(p.Approvals))
	}
	balance, err := v.ledger.Balance(ctx, v.address)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	if balance.Cmp(p.Amount) < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "vault holds %s, proposal %d requires %s", balance, id, p.Amount)
	}

	prev := p.clone()
	p.Executed = true
	if err := v.save(id, p); err != nil {
		logger.Error("cannot mark proposal as executed", "proposal", id, "err", err)
		return nil, err
	}
	if err := v.ledger.Withdraw(ctx, v.address, p.Recipient, p.Amount); err != nil {
		logger.Error("payout failed", "proposal", id, "amount", p.Amount, "err", err)
		if rerr := v.save(id, prev); rerr != nil {
			logger.Error("proposal left executed without payout", "proposal", id, "err", rerr)
		}
		return nil, errors.Wrap(err, "payout")
	}

	logger.Info("proposal executed", "proposal", id, "amount", p.Amount)
	return p, nil
}

// Deposit credits amount to the vault account.
func (v *Vault) Deposit(ctx context.Context, amount custody.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := v.ledger.Deposit(ctx, v.address, amount); err != nil {
		v.logger(ctx).Error("deposit failed", "amount", amount, "err", err)
		return err
	}
	return nil
}

// Balance returns the funds held by the vault.
func (v *Vault) Balance(ctx context.Context) (custody.Amount, error) {
	return v.ledger.Balance(ctx, v.address)
}

// Proposal returns a copy of the proposal with given ID.
func (v *Vault) Proposal(id uint64) (*Proposal, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load(v.db, id)
}

// Status returns the lifecycle stage of the proposal with given ID.
func (v *Vault) Status(id uint64) (Status, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, err := v.load(v.db, id)
	if err != nil {
		return Open, err
	}
	return statusOf(v.signers, p), nil
}

// ProposalCount returns the number of proposals ever created. Proposal IDs
// are in the range [0, ProposalCount).
func (v *Vault) ProposalCount() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count()
}

// Proposals returns copies of all proposals. The index of a proposal in
// the result is its ID.
func (v *Vault) Proposals() ([]*Proposal, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.count()
	if err != nil {
		return nil, err
	}
	out := make([]*Proposal, 0, n)
	for id := uint64(0); id < n; id++ {
		p, err := v.load(v.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (v *Vault) count() (uint64, error) {
	return v.seq.Latest(v.db)
}

func (v *Vault) load(db custody.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	var p Proposal
	if err := v.proposals.One(db, proposalKey(id), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", id)
	}
	return &p, nil
}

// atomic runs fn in a cache-wrap that is written only if fn succeeds.
func (v *Vault) atomic(fn func(custody.KVStore) error) error {
	cache := v.db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// save stores the proposal in a savepoint of the vault store.
func (v *Vault) save(id uint64, p *Proposal) error {
	return v.atomic(func(db custody.KVStore) error {
		_, err := v.proposals.Put(db, proposalKey(id), p)
		return err
	})
}

func (v *Vault) logger(ctx context.Context) log.Logger {
	return custody.GetLogger(ctx).With("vault", v.address)
}

func proposalKey(id uint64) []byte {
	return orm.EncodeSequence(id)
}
