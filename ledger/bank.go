package ledger

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
)

// Bank is an in-memory Ledger. It is safe for concurrent use.
//
// Transfer is open to any party that shares the bank, so it refuses to
// move funds out of held accounts. Withdraw has no such check and must be
// called only by the owner of the account, for a vault account that is
// the vault itself.
type Bank struct {
	mu      sync.Mutex
	db      custody.CacheableKVStore
	wallets orm.ModelBucket
	held    map[string]bool
}

var (
	_ Ledger    = (*Bank)(nil)
	_ Custodian = (*Bank)(nil)
)

// NewBank returns a bank with no accounts.
func NewBank() *Bank {
	return NewBankWithStore(store.MemStore())
}

// NewBankWithStore returns a bank that keeps its wallets in the given
// store.
func NewBankWithStore(db custody.CacheableKVStore) *Bank {
	return &Bank{
		db:      db,
		wallets: NewWalletBucket(),
		held:    make(map[string]bool),
	}
}

// Deposit credits amount to the account.
func (b *Bank) Deposit(ctx context.Context, account custody.Address, amount custody.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.atomic(func(db custody.KVStore) error {
		return IssueCoins(db, b.wallets, account, amount)
	})
	if err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("deposit", "account", account, "amount", amount)
	return nil
}

// Hold marks the account as held in custody. Transfer refuses to move
// funds out of a held account.
func (b *Bank) Hold(account custody.Address) {
	b.mu.Lock()
	b.held[string(account)] = true
	b.mu.Unlock()
}

// Withdraw moves amount out of the account to the recipient. It is the
// only way out of a held account.
func (b *Bank) Withdraw(ctx context.Context, account, recipient custody.Address, amount custody.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.move(ctx, account, recipient, amount)
}

// Transfer moves amount between two accounts. The source account must
// exist, hold at least amount and must not be held in custody.
func (b *Bank) Transfer(ctx context.Context, src, dest custody.Address, amount custody.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.held[string(src)] {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s is held in custody", src)
	}
	return b.move(ctx, src, dest, amount)
}

func (b *Bank) move(ctx context.Context, src, dest custody.Address, amount custody.Amount) error {
	err := b.atomic(func(db custody.KVStore) error {
		return MoveCoins(db, b.wallets, src, dest, amount)
	})
	if err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("transfer", "src", src, "dest", dest, "amount", amount)
	return nil
}

// Balance returns the funds held by the account.
func (b *Bank) Balance(ctx context.Context, account custody.Address) (custody.Amount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Balance(b.db, b.wallets, account)
}

// atomic runs fn in a savepoint that is only written if fn succeeds.
func (b *Bank) atomic(fn func(custody.KVStore) error) error {
	cache := b.db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
