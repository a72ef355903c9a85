package vault

import (
	"github.com/iov-one/custody/errors"
)

// vault takes 1000-1010
var (
	// ErrSelfTransfer is returned when a vault is asked to pay itself.
	ErrSelfTransfer = errors.Register(1000, "self transfer rejected")

	// ErrAlreadyExecuted is returned when a terminal proposal is modified.
	ErrAlreadyExecuted = errors.Register(1001, "proposal already executed")

	// ErrInsufficientApprovals is returned when a proposal is executed
	// before all signers approved it.
	ErrInsufficientApprovals = errors.Register(1002, "insufficient approvals")

	// ErrInvalidSignerSet is returned when signers do not form a set of
	// three distinct addresses.
	ErrInvalidSignerSet = errors.Register(1003, "invalid signer set")
)
