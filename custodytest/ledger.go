package custodytest

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
)

// Ledger is the subset of the ledger API that FailingLedger wraps. It is
// declared here so that ledger package tests can use this package.
type Ledger interface {
	Deposit(ctx context.Context, account custody.Address, amount custody.Amount) error
	Withdraw(ctx context.Context, account, recipient custody.Address, amount custody.Amount) error
	Balance(ctx context.Context, account custody.Address) (custody.Amount, error)
}

// FailingLedger is a ledger mock that passes all calls to the wrapped
// ledger, unless an error was set for that operation. A failing call does
// not reach the wrapped ledger.
type FailingLedger struct {
	Ledger Ledger

	mu          sync.Mutex
	depositErr  error
	withdrawErr error
	withdrawals int
	deposits    int
}

// FailDeposit makes all following deposits fail with given error. Nil
// error restores normal behaviour.
func (f *FailingLedger) FailDeposit(err error) {
	f.mu.Lock()
	f.depositErr = err
	f.mu.Unlock()
}

// FailWithdraw makes all following withdrawals fail with given error. Nil
// error restores normal behaviour.
func (f *FailingLedger) FailWithdraw(err error) {
	f.mu.Lock()
	f.withdrawErr = err
	f.mu.Unlock()
}

func (f *FailingLedger) Deposit(ctx context.Context, account custody.Address, amount custody.Amount) error {
	f.mu.Lock()
	f.deposits++
	err := f.depositErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Ledger.Deposit(ctx, account, amount)
}

func (f *FailingLedger) Withdraw(ctx context.Context, account, recipient custody.Address, amount custody.Amount) error {
	f.mu.Lock()
	f.withdrawals++
	err := f.withdrawErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Ledger.Withdraw(ctx, account, recipient, amount)
}

func (f *FailingLedger) Balance(ctx context.Context, account custody.Address) (custody.Amount, error) {
	return f.Ledger.Balance(ctx, account)
}

// WithdrawCallCount returns how many times Withdraw was called, including
// failed calls.
func (f *FailingLedger) WithdrawCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.withdrawals
}

// DepositCallCount returns how many times Deposit was called, including
// failed calls.
func (f *FailingLedger) DepositCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deposits
}
