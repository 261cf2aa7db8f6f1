// Package auth implements the ward set gating privileged operations.
package auth

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnauthorized is returned when the caller is not a ward.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrLastWard is returned when a revoke would empty the ward set.
	ErrLastWard = errors.New("auth: cannot remove the last ward")
)

// Wards is the set of addresses holding admin rights. Members grant and
// revoke membership; every privileged entry point checks membership before
// mutating anything.
type Wards struct {
	set map[common.Address]bool
}

// NewWards creates a ward set containing only the deployer.
func NewWards(deployer common.Address) *Wards {
	return &Wards{set: map[common.Address]bool{deployer: true}}
}

// Authorized reports whether account is a ward.
func (w *Wards) Authorized(account common.Address) bool {
	return w.set[account]
}

// Rely adds account to the ward set. Caller must be a ward.
func (w *Wards) Rely(caller, account common.Address) error {
	if !w.set[caller] {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller.Hex())
	}
	w.set[account] = true
	return nil
}

// Deny removes account from the ward set. Caller must be a ward, and the
// set may never be emptied.
func (w *Wards) Deny(caller, account common.Address) error {
	if !w.set[caller] {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller.Hex())
	}
	if w.set[account] && len(w.set) == 1 {
		return ErrLastWard
	}
	delete(w.set, account)
	return nil
}

// Count returns the number of wards.
func (w *Wards) Count() int {
	return len(w.set)
}
