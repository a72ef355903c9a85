package ledger

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// funds, it fails.
func MoveCoins(db custody.KVStore, bucket orm.ModelBucket, src, dest custody.Address, amount custody.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Equals(dest) {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot move funds from %s to itself", src)
	}

	var sender Wallet
	switch err := bucket.One(db, src, &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "account %s", src)
	case err != nil:
		return err
	}
	rest, err := sender.Balance.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s holds %s", src, sender.Balance)
	}

	recipient, err := loadWallet(db, bucket, dest)
	if err != nil {
		return err
	}
	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	// save them and return
	sender.Balance = rest
	if _, err := bucket.Put(db, src, &sender); err != nil {
		return err
	}
	recipient.Balance = total
	_, err = bucket.Put(db, dest, recipient)
	return err
}

// IssueCoins attempts to add the given amount to the destination
// address. Fails if it overflows the wallet.
func IssueCoins(db custody.KVStore, bucket orm.ModelBucket, dest custody.Address, amount custody.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero value")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := loadWallet(db, bucket, dest)
	if err != nil {
		return err
	}
	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}
	recipient.Balance = total
	_, err = bucket.Put(db, dest, recipient)
	return err
}

// Balance returns the funds held by the address. A missing wallet holds
// nothing.
func Balance(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, addr custody.Address) (custody.Amount, error) {
	if err := addr.Validate(); err != nil {
		return custody.Amount{}, err
	}
	w, err := loadWallet(db, bucket, addr)
	if err != nil {
		return custody.Amount{}, err
	}
	return w.Balance, nil
}

func loadWallet(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := bucket.One(db, addr, &w); {
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	case err != nil:
		return nil, err
	}
	return &w, nil
}
