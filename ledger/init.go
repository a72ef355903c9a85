package ledger

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use custody.Address, so address in hex, not base64
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Amount  custody.Amount  `json:"amount"`
}

// Initializer fulfils the custody.Initializer interface to load data from
// the genesis file
type Initializer struct {
	Ledger Ledger
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis
// and credit it to the ledger
func (i *Initializer) FromGenesis(ctx context.Context, opts custody.Options) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	for n, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if err := i.Ledger.Deposit(ctx, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
