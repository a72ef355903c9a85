package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single account. It is stored under the
// account address.
type Wallet struct {
	Balance custody.Amount
}

var _ orm.Model = (*Wallet)(nil)

type walletPB struct {
	Balance []byte `protobuf:"bytes,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *walletPB) Reset()         { *m = walletPB{} }
func (m *walletPB) String() string { return proto.CompactTextString(m) }
func (*walletPB) ProtoMessage()    {}

// Marshal serializes the wallet.
func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal(&walletPB{Balance: w.Balance.Bytes()})
}

// Unmarshal loads the wallet from its serialized form.
func (w *Wallet) Unmarshal(bz []byte) error {
	var pb walletPB
	if err := proto.Unmarshal(bz, &pb); err != nil {
		return err
	}
	amount, err := custody.AmountFromBytes(pb.Balance)
	if err != nil {
		return err
	}
	w.Balance = amount
	return nil
}

// Validate is always successful, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

// Copy returns a copy of the wallet.
func (w *Wallet) Copy() orm.Model {
	return &Wallet{Balance: w.Balance}
}

// NewWalletBucket returns a bucket of wallets keyed by address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
