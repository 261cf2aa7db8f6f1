package attest

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Registry is an in-memory Authority. It mints UIDs on issue and supports
// revocation, which is enough to stand in for a real attestation service in
// tests and the demo CLI.
type Registry struct {
	records map[uuid.UUID]*Attestation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[uuid.UUID]*Attestation)}
}

// Issue stores a copy of att under a fresh UID and returns the UID.
func (r *Registry) Issue(att Attestation) uuid.UUID {
	att.UID = uuid.New()
	if att.Issued.IsZero() {
		att.Issued = time.Now()
	}
	r.records[att.UID] = &att
	return att.UID
}

// Revoke marks uid revoked as of at. Unknown UIDs are ignored.
func (r *Registry) Revoke(uid uuid.UUID, at time.Time) {
	if rec, ok := r.records[uid]; ok {
		rec.Revocation = at
	}
}

// Attestation returns the record for uid.
func (r *Registry) Attestation(uid uuid.UUID) (*Attestation, bool) {
	rec, ok := r.records[uid]
	return rec, ok
}

type indexKey struct {
	account common.Address
	schema  common.Hash
}

// Index is an in-memory Indexer mapping (account, schema) to the UID of the
// account's current attestation under that schema.
type Index struct {
	uids map[indexKey]uuid.UUID
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{uids: make(map[indexKey]uuid.UUID)}
}

// Put records uid as the attestation for (account, schema), replacing any
// previous entry.
func (i *Index) Put(account common.Address, schema common.Hash, uid uuid.UUID) {
	i.uids[indexKey{account, schema}] = uid
}

// Delete removes the entry for (account, schema).
func (i *Index) Delete(account common.Address, schema common.Hash) {
	delete(i.uids, indexKey{account, schema})
}

// Lookup returns the attestation UID for (account, schema).
func (i *Index) Lookup(account common.Address, schema common.Hash) (uuid.UUID, bool) {
	uid, ok := i.uids[indexKey{account, schema}]
	return uid, ok
}
