// Package attest defines attestation records and the two collaborator
// interfaces the eligibility policy consumes: an Authority resolving an
// attestation by UID, and an Indexer resolving the UID for an
// (account, schema) pair.
//
// Attestation lifecycle (issue, expire, revoke) is owned by the authority;
// this module only reads records and judges their validity.
package attest

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Attestation is a claim about an account under a schema. Payload layout is
// schema-specific and opaque at this level.
type Attestation struct {
	UID        uuid.UUID
	Schema     common.Hash
	Recipient  common.Address
	Issued     time.Time
	Expiration time.Time // zero means never expires
	Revocation time.Time // zero means not revoked
	Data       []byte
}

// Valid reports whether the attestation is live at now: present, not
// expired, and not revoked.
func (a *Attestation) Valid(now time.Time) bool {
	if a == nil || a.UID == uuid.Nil {
		return false
	}
	if !a.Expiration.IsZero() && !now.Before(a.Expiration) {
		return false
	}
	if !a.Revocation.IsZero() && !now.Before(a.Revocation) {
		return false
	}
	return true
}

// Authority resolves attestation records by UID.
type Authority interface {
	// Attestation returns the record for uid, or false if none exists.
	Attestation(uid uuid.UUID) (*Attestation, bool)
}

// Indexer resolves the UID of the attestation held by an account under a
// schema.
type Indexer interface {
	// Lookup returns the attestation UID for (account, schema), or false
	// if the account holds no attestation under that schema.
	Lookup(account common.Address, schema common.Hash) (uuid.UUID, bool)
}
