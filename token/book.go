package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Book is the wrapped-balance ledger: per-account balances plus a total
// supply counter. Mint and burn keep the two in lockstep so that the supply
// always mirrors the custody balance held on the underlying ledger.
//
// The Book performs no permission checks; gating is the wrapper's concern
// and happens before any Book mutation.
type Book struct {
	balances map[common.Address]*uint256.Int
	supply   *uint256.Int
}

// NewBook creates an empty balance book.
func NewBook() *Book {
	return &Book{
		balances: make(map[common.Address]*uint256.Int),
		supply:   uint256.NewInt(0),
	}
}

// BalanceOf returns the wrapped balance of account.
func (b *Book) BalanceOf(account common.Address) *uint256.Int {
	return new(uint256.Int).Set(b.balance(account))
}

// TotalSupply returns the wrapped total supply.
func (b *Book) TotalSupply() *uint256.Int {
	return new(uint256.Int).Set(b.supply)
}

// Mint credits amount to account and grows the supply.
func (b *Book) Mint(account common.Address, amount *uint256.Int) error {
	supply, overflow := new(uint256.Int).AddOverflow(b.supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	b.supply = supply
	b.balances[account] = new(uint256.Int).Add(b.balance(account), amount)
	return nil
}

// Burn debits amount from account and shrinks the supply.
func (b *Book) Burn(account common.Address, amount *uint256.Int) error {
	bal := b.balance(account)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, account.Hex(), bal, amount)
	}
	b.balances[account] = new(uint256.Int).Sub(bal, amount)
	b.supply = new(uint256.Int).Sub(b.supply, amount)
	return nil
}

// Move transfers amount between two accounts without touching the supply.
func (b *Book) Move(from, to common.Address, amount *uint256.Int) error {
	bal := b.balance(from)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), bal, amount)
	}
	b.balances[from] = new(uint256.Int).Sub(bal, amount)
	b.balances[to] = new(uint256.Int).Add(b.balance(to), amount)
	return nil
}

// Seize burns account's entire balance and returns the amount removed.
func (b *Book) Seize(account common.Address) *uint256.Int {
	bal := b.balance(account)
	amount := new(uint256.Int).Set(bal)
	b.balances[account] = uint256.NewInt(0)
	b.supply = new(uint256.Int).Sub(b.supply, amount)
	return amount
}

func (b *Book) balance(account common.Address) *uint256.Int {
	if bal, ok := b.balances[account]; ok {
		return bal
	}
	return uint256.NewInt(0)
}
