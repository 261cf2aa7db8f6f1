// Package eligibility implements the composite predicate deciding whether an
// account may hold or receive the wrapped asset, together with the mutable
// registry of the predicate's three collaborator slots.
//
// The predicate is an ordered short-circuit chain over independent trust
// sources: a fixed exempt set, an allowlist store, and an attestation path
// resolved through an indexer. Each source is an injected capability; the
// attestation path fails closed on anything missing, expired, or revoked.
package eligibility

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pflow-xyz/gatedwrap/allowlist"
	"github.com/pflow-xyz/gatedwrap/attest"
)

// Dependency slot names recognized by SetDependency.
const (
	SlotAllowlist = "allowlist"
	SlotAuthority = "attestation-authority"
	SlotIndexer   = "attestation-indexer"
)

// Jurisdiction payloads carry a two-letter country code at a fixed offset.
const (
	countryOffset = 64
	countryWidth  = 2
)

// Config fixes the policy's immutable parameters at construction.
type Config struct {
	// Exempt lists accounts that satisfy the policy unconditionally.
	// The zero address is always exempt and need not be listed.
	Exempt []common.Address

	// AccountSchema identifies the account-verification attestation schema.
	AccountSchema common.Hash

	// CountrySchema identifies the jurisdiction attestation schema.
	CountrySchema common.Hash

	// VerifiedMarker is the exact payload an account-verification
	// attestation must carry.
	VerifiedMarker []byte

	// ExcludedCountry is the jurisdiction code that disqualifies an
	// otherwise attested account.
	ExcludedCountry string

	// Now supplies the clock for expiry and revocation checks.
	// Defaults to time.Now.
	Now func() time.Time
}

// deps holds the three replaceable collaborator slots. Handles are stored
// untyped: an incompatible handle is accepted at set time and only surfaces
// when the policy next tries to use it, at which point that trust source
// contributes nothing (fails closed).
type deps struct {
	allowlist any
	authority any
	indexer   any
}

// Policy evaluates eligibility against current collaborator state. Nothing
// is cached between calls; a single evaluation snapshots the slots once at
// entry so a mid-evaluation slot swap cannot split one decision across two
// configurations.
type Policy struct {
	exempt        map[common.Address]bool
	accountSchema common.Hash
	countrySchema common.Hash
	verified      []byte
	excluded      string
	now           func() time.Time

	deps deps
}

// New creates a policy from cfg with all three dependency slots empty.
func New(cfg Config) *Policy {
	exempt := map[common.Address]bool{common.Address{}: true}
	for _, a := range cfg.Exempt {
		exempt[a] = true
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Policy{
		exempt:        exempt,
		accountSchema: cfg.AccountSchema,
		countrySchema: cfg.CountrySchema,
		verified:      cfg.VerifiedMarker,
		excluded:      cfg.ExcludedCountry,
		now:           now,
	}
}

// SetDependency replaces the named slot. The handle's type is not checked
// here; a wrong handle shows up as the slot contributing nothing the next
// time the policy evaluates.
func (p *Policy) SetDependency(slot string, handle any) error {
	switch slot {
	case SlotAllowlist:
		p.deps.allowlist = handle
	case SlotAuthority:
		p.deps.authority = handle
	case SlotIndexer:
		p.deps.indexer = handle
	default:
		return fmt.Errorf("%w: %q", ErrUnrecognizedParameter, slot)
	}
	return nil
}

// Exempt reports whether account is in the fixed exempt set.
func (p *Policy) Exempt(account common.Address) bool {
	return p.exempt[account]
}

// Eligible evaluates the predicate for account against current state:
//  1. exempt set membership
//  2. allowlist membership
//  3. attestation path (account verification, then jurisdiction)
//
// The only error condition is a malformed jurisdiction payload; every other
// shortfall is a plain false.
func (p *Policy) Eligible(account common.Address) (bool, error) {
	if p.exempt[account] {
		return true, nil
	}

	// Snapshot the slots: one coherent read per evaluation.
	snapshot := p.deps

	if store, ok := snapshot.allowlist.(allowlist.Store); ok && store != nil {
		if store.IsMember(account) {
			return true, nil
		}
	}

	return p.attested(snapshot, account)
}

// attested walks the attestation path: a live account-verification record
// carrying the verified marker, and a live jurisdiction record decoding to a
// non-excluded country.
func (p *Policy) attested(snapshot deps, account common.Address) (bool, error) {
	indexer, ok := snapshot.indexer.(attest.Indexer)
	if !ok || indexer == nil {
		return false, nil
	}
	authority, ok := snapshot.authority.(attest.Authority)
	if !ok || authority == nil {
		return false, nil
	}
	now := p.now()

	verification := p.resolve(indexer, authority, account, p.accountSchema, now)
	if verification == nil {
		return false, nil
	}

	jurisdiction := p.resolve(indexer, authority, account, p.countrySchema, now)
	if jurisdiction == nil {
		return false, nil
	}
	if len(jurisdiction.Data) < countryOffset+countryWidth {
		return false, fmt.Errorf("%w: %d bytes, need %d",
			ErrMalformedAttestation, len(jurisdiction.Data), countryOffset+countryWidth)
	}
	code := string(jurisdiction.Data[countryOffset : countryOffset+countryWidth])

	return bytes.Equal(verification.Data, p.verified) && code != p.excluded, nil
}

// resolve returns the live attestation for (account, schema), or nil if the
// index has no entry, the authority has no record, or the record is expired
// or revoked.
func (p *Policy) resolve(indexer attest.Indexer, authority attest.Authority,
	account common.Address, schema common.Hash, now time.Time) *attest.Attestation {

	uid, ok := indexer.Lookup(account, schema)
	if !ok {
		return nil
	}
	record, ok := authority.Attestation(uid)
	if !ok || !record.Valid(now) {
		return nil
	}
	return record
}
