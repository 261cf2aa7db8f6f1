package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Memory is an in-memory Ledger with ERC-20 allowance semantics.
// It serves as the reference underlying asset for tests and the demo CLI.
type Memory struct {
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Mint credits amount to account. Test and genesis setup only.
func (m *Memory) Mint(account common.Address, amount *uint256.Int) {
	m.balances[account] = new(uint256.Int).Add(m.balance(account), amount)
}

// Approve sets spender's allowance from owner.
func (m *Memory) Approve(owner, spender common.Address, amount *uint256.Int) {
	inner, ok := m.allowances[owner]
	if !ok {
		inner = make(map[common.Address]*uint256.Int)
		m.allowances[owner] = inner
	}
	inner[spender] = new(uint256.Int).Set(amount)
}

// Allowance returns spender's remaining allowance from owner.
func (m *Memory) Allowance(owner, spender common.Address) *uint256.Int {
	if inner, ok := m.allowances[owner]; ok {
		if a, ok := inner[spender]; ok {
			return new(uint256.Int).Set(a)
		}
	}
	return uint256.NewInt(0)
}

// BalanceOf returns the balance of account.
func (m *Memory) BalanceOf(account common.Address) *uint256.Int {
	return new(uint256.Int).Set(m.balance(account))
}

// Transfer moves amount from from to to.
func (m *Memory) Transfer(from, to common.Address, amount *uint256.Int) error {
	bal := m.balance(from)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), bal, amount)
	}
	m.balances[from] = new(uint256.Int).Sub(bal, amount)
	m.balances[to] = new(uint256.Int).Add(m.balance(to), amount)
	return nil
}

// TransferFrom moves amount from owner to to, consuming spender's allowance.
func (m *Memory) TransferFrom(spender, owner, to common.Address, amount *uint256.Int) error {
	allowed := m.Allowance(owner, spender)
	if allowed.Lt(amount) {
		return fmt.Errorf("%w: %s allowed %s from %s, needs %s",
			ErrInsufficientAllowance, spender.Hex(), allowed, owner.Hex(), amount)
	}
	if err := m.Transfer(owner, to, amount); err != nil {
		return err
	}
	m.allowances[owner][spender] = allowed.Sub(allowed, amount)
	return nil
}

func (m *Memory) balance(account common.Address) *uint256.Int {
	if b, ok := m.balances[account]; ok {
		return b
	}
	return uint256.NewInt(0)
}
