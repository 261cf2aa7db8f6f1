// Package token provides fungible balance accounting: the Ledger interface
// over an external asset and the Book, an in-memory wrapped-balance ledger
// with a conservation invariant against its backing custody account.
package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ledger is the consumed surface of a fungible-asset ledger.
// Implementations own their balance and allowance bookkeeping; failures
// (insufficient balance, insufficient allowance) are returned as the
// implementation's own errors and are never translated by callers.
type Ledger interface {
	// BalanceOf returns the balance of account.
	BalanceOf(account common.Address) *uint256.Int

	// Transfer moves amount from from to to.
	Transfer(from, to common.Address, amount *uint256.Int) error

	// TransferFrom moves amount from owner to to on behalf of spender,
	// consuming spender's allowance from owner.
	TransferFrom(spender, owner, to common.Address, amount *uint256.Int) error
}
