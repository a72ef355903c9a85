package ledger

import (
	"context"

	"github.com/iov-one/custody"
)

// Ledger is the account store that funds are moved through.
type Ledger interface {
	// Deposit credits amount to the account.
	Deposit(ctx context.Context, account custody.Address, amount custody.Amount) error

	// Withdraw moves amount from the account to the recipient. Either the
	// whole amount is moved and nil is returned, or nothing changes and
	// an error is returned.
	Withdraw(ctx context.Context, account, recipient custody.Address, amount custody.Amount) error

	// Balance returns the funds held by the account. Unknown accounts
	// hold nothing.
	Balance(ctx context.Context, account custody.Address) (custody.Amount, error)
}

// Custodian is implemented by ledgers that can hold an account in custody.
// Funds leave a held account through Withdraw only, which is called by the
// account owner alone. Vaults hold their account when they are created.
type Custodian interface {
	Hold(account custody.Address)
}
