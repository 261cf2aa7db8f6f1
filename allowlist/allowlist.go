// Package allowlist defines the membership-store collaborator consumed by
// the eligibility policy. Membership administration belongs to the store
// itself; the policy consumes only the boolean query.
package allowlist

import "github.com/ethereum/go-ethereum/common"

// Store answers membership queries.
type Store interface {
	IsMember(account common.Address) bool
}

// Memory is an in-memory Store for tests and the demo CLI.
type Memory struct {
	members map[common.Address]bool
}

// NewMemory creates an empty membership store.
func NewMemory() *Memory {
	return &Memory{members: make(map[common.Address]bool)}
}

// Add records account as a member.
func (m *Memory) Add(account common.Address) {
	m.members[account] = true
}

// Remove drops account from the membership set.
func (m *Memory) Remove(account common.Address) {
	delete(m.members, account)
}

// IsMember reports whether account is a member.
func (m *Memory) IsMember(account common.Address) bool {
	return m.members[account]
}
