package token

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func TestBookMintBurn(t *testing.T) {
	b := NewBook()

	if err := b.Mint(alice, uint256.NewInt(100)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if got := b.BalanceOf(alice); !got.Eq(uint256.NewInt(100)) {
		t.Errorf("BalanceOf(alice) = %s, want 100", got)
	}
	if got := b.TotalSupply(); !got.Eq(uint256.NewInt(100)) {
		t.Errorf("TotalSupply() = %s, want 100", got)
	}

	if err := b.Burn(alice, uint256.NewInt(40)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if got := b.BalanceOf(alice); !got.Eq(uint256.NewInt(60)) {
		t.Errorf("BalanceOf(alice) = %s, want 60", got)
	}
	if got := b.TotalSupply(); !got.Eq(uint256.NewInt(60)) {
		t.Errorf("TotalSupply() = %s, want 60", got)
	}
}

func TestBookBurnInsufficient(t *testing.T) {
	b := NewBook()
	b.Mint(alice, uint256.NewInt(10))

	err := b.Burn(alice, uint256.NewInt(11))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Burn(11 of 10) = %v, want ErrInsufficientBalance", err)
	}
	// Failed burn must not touch state.
	if got := b.BalanceOf(alice); !got.Eq(uint256.NewInt(10)) {
		t.Errorf("BalanceOf(alice) = %s, want 10", got)
	}
	if got := b.TotalSupply(); !got.Eq(uint256.NewInt(10)) {
		t.Errorf("TotalSupply() = %s, want 10", got)
	}
}

func TestBookMove(t *testing.T) {
	b := NewBook()
	b.Mint(alice, uint256.NewInt(100))

	if err := b.Move(alice, bob, uint256.NewInt(30)); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if got := b.BalanceOf(alice); !got.Eq(uint256.NewInt(70)) {
		t.Errorf("BalanceOf(alice) = %s, want 70", got)
	}
	if got := b.BalanceOf(bob); !got.Eq(uint256.NewInt(30)) {
		t.Errorf("BalanceOf(bob) = %s, want 30", got)
	}
	// Supply is conserved across transfers.
	if got := b.TotalSupply(); !got.Eq(uint256.NewInt(100)) {
		t.Errorf("TotalSupply() = %s, want 100", got)
	}

	if err := b.Move(alice, bob, uint256.NewInt(71)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Move(71 of 70) = %v, want ErrInsufficientBalance", err)
	}
}

func TestBookSeize(t *testing.T) {
	b := NewBook()
	b.Mint(alice, uint256.NewInt(100))
	b.Mint(bob, uint256.NewInt(50))

	amount := b.Seize(alice)
	if !amount.Eq(uint256.NewInt(100)) {
		t.Errorf("Seize(alice) = %s, want 100", amount)
	}
	if got := b.BalanceOf(alice); !got.IsZero() {
		t.Errorf("BalanceOf(alice) = %s, want 0", got)
	}
	if got := b.TotalSupply(); !got.Eq(uint256.NewInt(50)) {
		t.Errorf("TotalSupply() = %s, want 50", got)
	}

	// Seizing an empty account is a zero-amount no-op.
	if amount := b.Seize(alice); !amount.IsZero() {
		t.Errorf("Seize(empty) = %s, want 0", amount)
	}
}

func TestBookSupplyOverflow(t *testing.T) {
	b := NewBook()
	max := new(uint256.Int).SetAllOne()
	if err := b.Mint(alice, max); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := b.Mint(bob, uint256.NewInt(1)); !errors.Is(err, ErrSupplyOverflow) {
		t.Errorf("Mint past max = %v, want ErrSupplyOverflow", err)
	}
	if got := b.BalanceOf(bob); !got.IsZero() {
		t.Errorf("BalanceOf(bob) = %s, want 0 after failed mint", got)
	}
}

func TestMemoryAllowance(t *testing.T) {
	m := NewMemory()
	spender := common.HexToAddress("0x0000000000000000000000000000000000005e4d")
	m.Mint(alice, uint256.NewInt(100))

	err := m.TransferFrom(spender, alice, bob, uint256.NewInt(10))
	if !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("TransferFrom without approval = %v, want ErrInsufficientAllowance", err)
	}

	m.Approve(alice, spender, uint256.NewInt(25))
	if err := m.TransferFrom(spender, alice, bob, uint256.NewInt(10)); err != nil {
		t.Fatalf("TransferFrom failed: %v", err)
	}
	if got := m.Allowance(alice, spender); !got.Eq(uint256.NewInt(15)) {
		t.Errorf("Allowance = %s, want 15", got)
	}
	if got := m.BalanceOf(bob); !got.Eq(uint256.NewInt(10)) {
		t.Errorf("BalanceOf(bob) = %s, want 10", got)
	}

	// Allowance present but balance short: the balance error wins.
	m.Approve(alice, spender, uint256.NewInt(1000))
	if err := m.TransferFrom(spender, alice, bob, uint256.NewInt(500)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("TransferFrom over balance = %v, want ErrInsufficientBalance", err)
	}
}
