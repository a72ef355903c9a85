package registry

import (
	"context"
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/ledger"
	"github.com/iov-one/custody/notify"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/vault"
)

// Registry creates vaults and finds them by ID, address or signer. It is
// safe for concurrent use.
type Registry struct {
	ledger ledger.Ledger
	sink   custody.EventSink

	mu     sync.RWMutex
	db     custody.CacheableKVStore
	infos  orm.ModelBucket
	seq    orm.Sequence
	vaults map[string]*vault.Vault
	order  []*vault.Vault
}

// New returns an empty registry. All vaults it creates keep their funds in
// the given ledger. Nil sink drops all events.
func New(l ledger.Ledger, sink custody.EventSink) *Registry {
	return &Registry{
		ledger: l,
		sink:   notify.OrNop(sink),
		db:     store.MemStore(),
		infos:  vault.NewInfoBucket(),
		seq:    vault.InfoSequence(),
		vaults: make(map[string]*vault.Vault),
	}
}

// CreateVault registers a new vault for the given signers. Signers must be
// three distinct addresses, otherwise ErrInvalidSignerSet is returned and
// nothing is registered.
func (r *Registry) CreateVault(ctx context.Context, s1, s2, s3 custody.Address) (*vault.Vault, error) {
	signers, err := vault.NewSignerSet(s1, s2, s3)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	v, err := r.create(signers)
	r.mu.Unlock()
	if err != nil {
		custody.GetLogger(ctx).Error("cannot create vault", "err", err)
		return nil, err
	}

	custody.GetLogger(ctx).Info("vault created", "vault", v.Address(), "signers", len(signers))
	r.sink.Emit(ctx, VaultCreated{
		ID:      v.ID(),
		Address: v.Address(),
		Signers: v.Signers(),
	})
	return v, nil
}

func (r *Registry) create(signers vault.SignerSet) (*vault.Vault, error) {
	cache := r.db.CacheWrap()
	id, err := r.seq.NextVal(cache)
	if err != nil {
		cache.Discard()
		return nil, errors.Wrap(err, "vault sequence")
	}
	if _, err := r.infos.Put(cache, id, vault.NewVaultInfo(id, signers)); err != nil {
		cache.Discard()
		return nil, err
	}
	v, err := vault.New(id, signers, vault.Config{
		Ledger: r.ledger,
		Sink:   r.sink,
	})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	r.vaults[string(id)] = v
	r.order = append(r.order, v)
	return v, nil
}

// GetVault returns the vault with given ID.
func (r *Registry) GetVault(id []byte) (*vault.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

// GetVaultByAddress returns the vault with given account address.
func (r *Registry) GetVaultByAddress(addr custody.Address) (*vault.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys, err := r.infos.ByIndex(r.db, "address", addr)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "vault %s", addr)
	}
	return r.get(keys[0])
}

// VaultsBySigner returns all vaults the address is a signer of, in
// creation order.
func (r *Registry) VaultsBySigner(addr custody.Address) ([]*vault.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys, err := r.infos.ByIndex(r.db, "signer", addr)
	if err != nil {
		return nil, err
	}
	out := make([]*vault.Vault, 0, len(keys))
	for _, k := range keys {
		v, err := r.get(k)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Vaults returns all vaults in creation order.
func (r *Registry) Vaults() []*vault.Vault {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*vault.Vault, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered vaults.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) get(id []byte) (*vault.Vault, error) {
	if err := r.infos.Has(r.db, id); err != nil {
		return nil, errors.Wrapf(err, "vault %X", id)
	}
	v, ok := r.vaults[string(id)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "vault %X has a record but no instance", id)
	}
	return v, nil
}
