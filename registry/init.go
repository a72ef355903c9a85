package registry

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/vault"
)

const optKey = "vaults"

// GenesisVault is used to parse the json from genesis file.
type GenesisVault struct {
	Signers []custody.Address `json:"signers"`
}

// Initializer fulfils the custody.Initializer interface to create vaults
// declared in the genesis file.
type Initializer struct {
	Registry *Registry
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis creates all declared vaults, in order.
func (i *Initializer) FromGenesis(ctx context.Context, opts custody.Options) error {
	var vaults []GenesisVault
	if err := opts.ReadOptions(optKey, &vaults); err != nil {
		return err
	}
	for n, gv := range vaults {
		signers, err := vault.SignerSetFrom(gv.Signers)
		if err != nil {
			return errors.Wrapf(err, "vault %d", n)
		}
		if _, err := i.Registry.CreateVault(ctx, signers[0], signers[1], signers[2]); err != nil {
			return errors.Wrapf(err, "vault %d", n)
		}
	}
	return nil
}
