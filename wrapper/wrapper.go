// Package wrapper implements the permission-gated wrapped-asset ledger: a
// 1:1 wrapped representation of an underlying asset whose every
// balance-changing operation re-checks a composable eligibility policy on
// both counterparties.
//
// All state-changing entry points funnel through the gate; admin operations
// (dependency configuration, recovery, ward changes) funnel through the ward
// set first. Every operation either completes fully or leaves no trace.
package wrapper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/gatedwrap/auth"
	"github.com/pflow-xyz/gatedwrap/eligibility"
	"github.com/pflow-xyz/gatedwrap/eventsource"
	"github.com/pflow-xyz/gatedwrap/token"
)

// Config assembles a wrapper.
type Config struct {
	// Custody is the wrapper's own account on the underlying ledger. All
	// locked underlying sits here; recovery from it is refused.
	Custody common.Address

	// Underlying is the asset being wrapped.
	Underlying token.Ledger

	// Deployer is the initial ward.
	Deployer common.Address

	// Policy is the eligibility policy consulted on every gated operation.
	Policy *eligibility.Policy

	// Events receives the audit trail. Optional; nil disables auditing.
	Events eventsource.Store

	// Stream names the audit event stream. Defaults to "wrapper".
	Stream string

	// Logger reports audit-append failures. Optional.
	Logger *slog.Logger
}

// Wrapper is the gated wrapped-asset ledger. Operations are serialized by an
// internal mutex; each runs to completion or leaves state untouched.
type Wrapper struct {
	mu         sync.Mutex
	custody    common.Address
	underlying token.Ledger
	book       *token.Book
	wards      *auth.Wards
	policy     *eligibility.Policy
	events     eventsource.Store
	stream     string
	log        *slog.Logger
}

// New creates a wrapper from cfg.
func New(cfg Config) *Wrapper {
	stream := cfg.Stream
	if stream == "" {
		stream = "wrapper"
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Wrapper{
		custody:    cfg.Custody,
		underlying: cfg.Underlying,
		book:       token.NewBook(),
		wards:      auth.NewWards(cfg.Deployer),
		policy:     cfg.Policy,
		events:     cfg.Events,
		stream:     stream,
		log:        log,
	}
}

// Custody returns the wrapper's custody address on the underlying ledger.
func (w *Wrapper) Custody() common.Address {
	return w.custody
}

// Authorized reports whether account is a ward.
func (w *Wrapper) Authorized(account common.Address) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wards.Authorized(account)
}

// Rely grants account admin rights. Ward-only.
func (w *Wrapper) Rely(caller, account common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.wards.Rely(caller, account); err != nil {
		return err
	}
	w.emit(EventWardGranted, WardEvent{Caller: caller.Hex(), Account: account.Hex()})
	return nil
}

// Deny revokes account's admin rights. Ward-only.
func (w *Wrapper) Deny(caller, account common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.wards.Deny(caller, account); err != nil {
		return err
	}
	w.emit(EventWardRevoked, WardEvent{Caller: caller.Hex(), Account: account.Hex()})
	return nil
}

// SetDependency replaces a policy dependency slot. Ward-only. The slot name
// must be one of the eligibility package's recognized slots; the handle is
// not validated against the slot's interface here and an incompatible handle
// only surfaces at the next evaluation.
func (w *Wrapper) SetDependency(caller common.Address, slot string, handle any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.wards.Authorized(caller) {
		return fmt.Errorf("%w: %s", auth.ErrUnauthorized, caller.Hex())
	}
	if err := w.policy.SetDependency(slot, handle); err != nil {
		return err
	}
	w.emit(EventDependencyChanged, DependencyChangedEvent{
		Slot:   slot,
		Handle: fmt.Sprintf("%T", handle),
	})
	return nil
}

// Eligible evaluates the policy for account against current state.
func (w *Wrapper) Eligible(account common.Address) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.policy.Eligible(account)
}

// BalanceOf returns account's wrapped balance.
func (w *Wrapper) BalanceOf(account common.Address) *uint256.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.book.BalanceOf(account)
}

// TotalSupply returns the wrapped total supply. It always equals the
// underlying balance held by the custody address.
func (w *Wrapper) TotalSupply() *uint256.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.book.TotalSupply()
}

// Transfer moves wrapped balance between two accounts. Both parties are
// re-checked against the policy on every call; there is no grandfathering.
func (w *Wrapper) Transfer(from, to common.Address, amount *uint256.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.gate(from, to); err != nil {
		return err
	}
	if err := w.book.Move(from, to, amount); err != nil {
		return err
	}
	w.emit(EventTransferred, TransferEvent{From: from.Hex(), To: to.Hex(), Amount: amount.String()})
	return nil
}

// DepositFor pulls amount of underlying from caller into custody and mints
// the same amount of wrapped asset to beneficiary. The caller must have
// approved the custody address on the underlying ledger; allowance failures
// propagate as the underlying ledger's own errors.
func (w *Wrapper) DepositFor(caller, beneficiary common.Address, amount *uint256.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Decide before acting: the mint counterparties are (zero, beneficiary).
	if err := w.gate(common.Address{}, beneficiary); err != nil {
		return err
	}
	if err := w.underlying.TransferFrom(w.custody, caller, w.custody, amount); err != nil {
		return err
	}
	if err := w.book.Mint(beneficiary, amount); err != nil {
		// Return the pulled underlying to keep the call atomic.
		w.underlying.Transfer(w.custody, caller, amount)
		return err
	}
	w.emit(EventDeposited, TransferEvent{From: caller.Hex(), To: beneficiary.Hex(), Amount: amount.String()})
	return nil
}

// WithdrawTo burns amount of wrapped asset from caller and releases the same
// amount of underlying to beneficiary. Eligibility governs only the wrapped
// side: the caller is re-checked, the beneficiary is not.
func (w *Wrapper) WithdrawTo(caller, beneficiary common.Address, amount *uint256.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.gate(caller, common.Address{}); err != nil {
		return err
	}
	if err := w.book.Burn(caller, amount); err != nil {
		return err
	}
	if err := w.underlying.Transfer(w.custody, beneficiary, amount); err != nil {
		w.book.Mint(caller, amount)
		return err
	}
	w.emit(EventWithdrawn, TransferEvent{From: caller.Hex(), To: beneficiary.Hex(), Amount: amount.String()})
	return nil
}

// Recover burns account's entire wrapped balance and releases the equal
// amount of underlying back to account (not to the caller). Ward-only. The
// eligibility policy is deliberately bypassed: the point is to unwind
// balances stranded on accounts that no longer pass it.
func (w *Wrapper) Recover(caller, account common.Address) (*uint256.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.wards.Authorized(caller) {
		return nil, fmt.Errorf("%w: %s", auth.ErrUnauthorized, caller.Hex())
	}
	if account == w.custody {
		return nil, ErrInvalidTarget
	}

	amount := w.book.Seize(account)
	if err := w.underlying.Transfer(w.custody, account, amount); err != nil {
		w.book.Mint(account, amount)
		return nil, err
	}
	w.emit(EventRecovered, RecoveredEvent{Account: account.Hex(), Amount: amount.String()})
	return amount, nil
}

// gate evaluates the policy for each party in order and reports the first
// ineligible one. A policy evaluation error (malformed upstream data) aborts
// the operation as-is.
func (w *Wrapper) gate(parties ...common.Address) error {
	for _, p := range parties {
		ok, err := w.policy.Eligible(p)
		if err != nil {
			return err
		}
		if !ok {
			return &PermissionError{Addr: p}
		}
	}
	return nil
}

// emit appends an audit event. Auditing is best-effort: a store failure is
// logged, not propagated, so the ledger mutation it records stands.
func (w *Wrapper) emit(eventType string, payload any) {
	if w.events == nil {
		return
	}
	ctx := context.Background()
	event, err := eventsource.NewEvent(w.stream, eventType, payload)
	if err != nil {
		w.log.Warn("audit event build failed", "type", eventType, "err", err)
		return
	}
	version, err := w.events.StreamVersion(ctx, w.stream)
	if err != nil {
		w.log.Warn("audit stream version failed", "type", eventType, "err", err)
		return
	}
	if _, err := w.events.Append(ctx, w.stream, version, []*eventsource.Event{event}); err != nil {
		w.log.Warn("audit append failed", "type", eventType, "err", err)
	}
}
