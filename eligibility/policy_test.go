package eligibility

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/pflow-xyz/gatedwrap/allowlist"
	"github.com/pflow-xyz/gatedwrap/attest"
)

var (
	lending = common.HexToAddress("0x0000000000000000000000000000000000001e4d")
	bundler = common.HexToAddress("0x0000000000000000000000000000000000002e4d")
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	schemaAccount = common.HexToHash("0xaa")
	schemaCountry = common.HexToHash("0xbb")

	verifiedMarker = []byte("verifiedAccount")
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newPolicy() *Policy {
	return New(Config{
		Exempt:          []common.Address{lending, bundler},
		AccountSchema:   schemaAccount,
		CountrySchema:   schemaCountry,
		VerifiedMarker:  verifiedMarker,
		ExcludedCountry: "US",
		Now:             func() time.Time { return testNow },
	})
}

// countryPayload builds a jurisdiction payload with code at the fixed
// decode offset.
func countryPayload(code string) []byte {
	data := make([]byte, countryOffset+countryWidth)
	copy(data[countryOffset:], code)
	return data
}

// attestedFixture wires a registry and index holding a live verification
// pair for account with the given jurisdiction code.
func attestedFixture(p *Policy, account common.Address, code string) (*attest.Registry, *attest.Index) {
	registry := attest.NewRegistry()
	index := attest.NewIndex()

	accountUID := registry.Issue(attest.Attestation{
		Schema: schemaAccount, Recipient: account, Data: verifiedMarker,
	})
	index.Put(account, schemaAccount, accountUID)

	countryUID := registry.Issue(attest.Attestation{
		Schema: schemaCountry, Recipient: account, Data: countryPayload(code),
	})
	index.Put(account, schemaCountry, countryUID)

	p.SetDependency(SlotAuthority, registry)
	p.SetDependency(SlotIndexer, index)
	return registry, index
}

func mustEligible(t *testing.T, p *Policy, account common.Address, want bool) {
	t.Helper()
	got, err := p.Eligible(account)
	if err != nil {
		t.Fatalf("Eligible(%s) error: %v", account.Hex(), err)
	}
	if got != want {
		t.Errorf("Eligible(%s) = %v, want %v", account.Hex(), got, want)
	}
}

func TestExemptAlwaysEligible(t *testing.T) {
	p := newPolicy()

	// Exempt accounts pass under every registry state: empty slots, live
	// slots, and slots pointing at stores that exclude them.
	for _, account := range []common.Address{{}, lending, bundler} {
		mustEligible(t, p, account, true)
	}

	p.SetDependency(SlotAllowlist, allowlist.NewMemory())
	attestedFixture(p, alice, "FR")
	for _, account := range []common.Address{{}, lending, bundler} {
		mustEligible(t, p, account, true)
	}
}

func TestAllowlistMembership(t *testing.T) {
	p := newPolicy()
	members := allowlist.NewMemory()
	p.SetDependency(SlotAllowlist, members)

	mustEligible(t, p, alice, false)
	members.Add(alice)
	mustEligible(t, p, alice, true)

	// No grandfathering: removal takes effect on the next evaluation.
	members.Remove(alice)
	mustEligible(t, p, alice, false)
}

func TestAttestationPath(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"jurisdiction FR", "FR", true},
		{"jurisdiction DE", "DE", true},
		{"excluded jurisdiction US", "US", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newPolicy()
			attestedFixture(p, alice, tc.code)
			mustEligible(t, p, alice, tc.want)
		})
	}
}

func TestAttestationPathFailsClosed(t *testing.T) {
	t.Run("no slots configured", func(t *testing.T) {
		mustEligible(t, newPolicy(), alice, false)
	})

	t.Run("missing account verification", func(t *testing.T) {
		p := newPolicy()
		_, index := attestedFixture(p, alice, "FR")
		index.Delete(alice, schemaAccount)
		mustEligible(t, p, alice, false)
	})

	t.Run("missing jurisdiction", func(t *testing.T) {
		// A valid account verification alone is not enough; the decode
		// step is never reached so no malformed-data error can fire.
		p := newPolicy()
		_, index := attestedFixture(p, alice, "FR")
		index.Delete(alice, schemaCountry)
		mustEligible(t, p, alice, false)
	})

	t.Run("revoked account verification", func(t *testing.T) {
		p := newPolicy()
		registry, index := attestedFixture(p, alice, "FR")
		uid, _ := index.Lookup(alice, schemaAccount)
		registry.Revoke(uid, testNow.Add(-time.Hour))
		mustEligible(t, p, alice, false)
	})

	t.Run("expired jurisdiction", func(t *testing.T) {
		p := newPolicy()
		registry := attest.NewRegistry()
		index := attest.NewIndex()
		accountUID := registry.Issue(attest.Attestation{
			Schema: schemaAccount, Recipient: alice, Data: verifiedMarker,
		})
		index.Put(alice, schemaAccount, accountUID)
		countryUID := registry.Issue(attest.Attestation{
			Schema: schemaCountry, Recipient: alice,
			Data:       countryPayload("FR"),
			Expiration: testNow.Add(-time.Minute),
		})
		index.Put(alice, schemaCountry, countryUID)
		p.SetDependency(SlotAuthority, registry)
		p.SetDependency(SlotIndexer, index)
		mustEligible(t, p, alice, false)
	})

	t.Run("wrong verification marker", func(t *testing.T) {
		p := newPolicy()
		registry, index := attestedFixture(p, alice, "FR")
		badUID := registry.Issue(attest.Attestation{
			Schema: schemaAccount, Recipient: alice, Data: []byte("something else"),
		})
		index.Put(alice, schemaAccount, badUID)
		mustEligible(t, p, alice, false)
	})

	t.Run("dangling index entry", func(t *testing.T) {
		p := newPolicy()
		_, index := attestedFixture(p, bob, "FR")
		// bob's own records exist; alice's index entry points nowhere.
		index.Put(alice, schemaAccount, uuid.UUID{0xde, 0xad})
		mustEligible(t, p, alice, false)
	})
}

func TestMalformedJurisdictionPayload(t *testing.T) {
	p := newPolicy()
	registry := attest.NewRegistry()
	index := attest.NewIndex()

	accountUID := registry.Issue(attest.Attestation{
		Schema: schemaAccount, Recipient: alice, Data: verifiedMarker,
	})
	index.Put(alice, schemaAccount, accountUID)
	shortUID := registry.Issue(attest.Attestation{
		Schema: schemaCountry, Recipient: alice, Data: make([]byte, countryOffset+countryWidth-1),
	})
	index.Put(alice, schemaCountry, shortUID)

	p.SetDependency(SlotAuthority, registry)
	p.SetDependency(SlotIndexer, index)

	_, err := p.Eligible(alice)
	if !errors.Is(err, ErrMalformedAttestation) {
		t.Errorf("Eligible with short payload = %v, want ErrMalformedAttestation", err)
	}
}

func TestSetDependency(t *testing.T) {
	p := newPolicy()

	if err := p.SetDependency("bogus", allowlist.NewMemory()); !errors.Is(err, ErrUnrecognizedParameter) {
		t.Errorf("SetDependency(bogus) = %v, want ErrUnrecognizedParameter", err)
	}

	// Replacement takes effect for subsequent evaluations.
	first := allowlist.NewMemory()
	first.Add(alice)
	p.SetDependency(SlotAllowlist, first)
	mustEligible(t, p, alice, true)

	second := allowlist.NewMemory()
	p.SetDependency(SlotAllowlist, second)
	mustEligible(t, p, alice, false)

	// Setting the same handle twice changes nothing observable.
	p.SetDependency(SlotAllowlist, first)
	p.SetDependency(SlotAllowlist, first)
	mustEligible(t, p, alice, true)
}

func TestIncompatibleHandleFailsClosed(t *testing.T) {
	p := newPolicy()
	members := allowlist.NewMemory()
	members.Add(alice)
	p.SetDependency(SlotAllowlist, members)

	// A handle of the wrong type is accepted at set time and simply
	// contributes nothing at evaluation time.
	if err := p.SetDependency(SlotIndexer, "not an indexer"); err != nil {
		t.Fatalf("SetDependency with wrong type = %v, want nil", err)
	}
	mustEligible(t, p, alice, true) // allowlist path unaffected
	mustEligible(t, p, bob, false)  // attestation path fails closed

	if err := p.SetDependency(SlotAllowlist, 42); err != nil {
		t.Fatalf("SetDependency with wrong type = %v, want nil", err)
	}
	mustEligible(t, p, alice, false)
}
