package token

import "errors"

var (
	// Ledger errors
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")

	// Book errors
	ErrSupplyOverflow = errors.New("token: total supply overflow")
)
