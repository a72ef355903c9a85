package registry

import (
	"encoding/hex"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/vault"
	"github.com/tendermint/tendermint/libs/common"
)

// PathVaultCreated is the path of the VaultCreated event.
const PathVaultCreated = "registry/vault_created"

// VaultCreated is emitted after a new vault was registered.
type VaultCreated struct {
	ID      []byte
	Address custody.Address
	Signers vault.SignerSet
}

var _ custody.Event = VaultCreated{}

func (VaultCreated) Path() string { return PathVaultCreated }

func (e VaultCreated) Tags() []common.KVPair {
	tags := []common.KVPair{
		custody.Tag("id", []byte(hex.EncodeToString(e.ID))),
		custody.Tag("vault", []byte(e.Address.String())),
	}
	for _, s := range e.Signers {
		tags = append(tags, custody.Tag("signer", []byte(s.String())))
	}
	return tags
}
