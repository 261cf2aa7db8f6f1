package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/pflow-xyz/gatedwrap/allowlist"
	"github.com/pflow-xyz/gatedwrap/attest"
	"github.com/pflow-xyz/gatedwrap/eligibility"
	"github.com/pflow-xyz/gatedwrap/eventsource"
	"github.com/pflow-xyz/gatedwrap/token"
	"github.com/pflow-xyz/gatedwrap/wrapper"
)

// Demo deployment addresses.
var (
	custody = common.HexToAddress("0x00000000000000000000000000000000c0570d11")
	admin   = common.HexToAddress("0x0000000000000000000000000000000000000ad1")
	lending = common.HexToAddress("0x0000000000000000000000000000000000001e4d")
	bundler = common.HexToAddress("0x0000000000000000000000000000000000002e4d")
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol   = common.HexToAddress("0x00000000000000000000000000000000000ca201")

	schemaAccount = common.HexToHash("0xaa")
	schemaCountry = common.HexToHash("0xbb")
)

// demo runs a scripted session: configure, deposit, transfer, lose
// eligibility, recover.
func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite audit database (default in-memory)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var store eventsource.Store
	if *dbPath != "" {
		s, err := eventsource.NewSQLiteStore(*dbPath)
		if err != nil {
			return err
		}
		store = s
	} else {
		store = eventsource.NewMemoryStore()
	}
	defer store.Close()

	underlying := token.NewMemory()
	members := allowlist.NewMemory()
	registry := attest.NewRegistry()
	index := attest.NewIndex()

	policy := eligibility.New(eligibility.Config{
		Exempt:          []common.Address{lending, bundler},
		AccountSchema:   schemaAccount,
		CountrySchema:   schemaCountry,
		VerifiedMarker:  []byte("verifiedAccount"),
		ExcludedCountry: "US",
	})
	wrap := wrapper.New(wrapper.Config{
		Custody:    custody,
		Underlying: underlying,
		Deployer:   admin,
		Policy:     policy,
		Events:     store,
	})

	for _, slot := range []struct {
		name   string
		handle any
	}{
		{eligibility.SlotAllowlist, members},
		{eligibility.SlotAuthority, registry},
		{eligibility.SlotIndexer, index},
	} {
		if err := wrap.SetDependency(admin, slot.name, slot.handle); err != nil {
			return err
		}
	}

	// Alice joins via the allowlist; Bob via attestations; Carol attests
	// from the excluded jurisdiction.
	members.Add(alice)
	issueVerification(registry, index, bob, "DE")
	issueVerification(registry, index, carol, "US")

	underlying.Mint(alice, uint256.NewInt(1000))
	underlying.Approve(alice, custody, uint256.NewInt(1000))

	step("alice deposits 400", wrap.DepositFor(alice, alice, uint256.NewInt(400)))
	step("alice transfers 150 to bob", wrap.Transfer(alice, bob, uint256.NewInt(150)))
	step("alice transfers 50 to carol", wrap.Transfer(alice, carol, uint256.NewInt(50)))

	// Bob's verification is revoked; his balance strands until recovery.
	uid, _ := index.Lookup(bob, schemaAccount)
	registry.Revoke(uid, time.Now())
	step("bob withdraws after revocation", wrap.WithdrawTo(bob, bob, uint256.NewInt(150)))

	amount, err := wrap.Recover(admin, bob)
	if err != nil {
		return err
	}
	fmt.Printf("admin recovers bob's balance: %s released\n", amount)

	fmt.Println()
	for _, account := range []struct {
		name string
		addr common.Address
	}{{"alice", alice}, {"bob", bob}, {"carol", carol}} {
		fmt.Printf("%-6s wrapped=%-6s underlying=%s\n", account.name,
			wrap.BalanceOf(account.addr), underlying.BalanceOf(account.addr))
	}
	fmt.Printf("supply=%s custody=%s\n", wrap.TotalSupply(), underlying.BalanceOf(custody))
	return nil
}

// step prints an operation outcome; permission rejections are expected
// outcomes in the script, not failures.
func step(label string, err error) {
	switch {
	case err == nil:
		fmt.Printf("%s: ok\n", label)
	case errors.Is(err, wrapper.ErrNoPermission):
		fmt.Printf("%s: rejected (%v)\n", label, err)
	default:
		fmt.Printf("%s: failed (%v)\n", label, err)
	}
}

func issueVerification(registry *attest.Registry, index *attest.Index, account common.Address, code string) {
	accountUID := registry.Issue(attest.Attestation{
		Schema: schemaAccount, Recipient: account, Data: []byte("verifiedAccount"),
	})
	index.Put(account, schemaAccount, accountUID)

	data := make([]byte, 66)
	copy(data[64:], code)
	countryUID := registry.Issue(attest.Attestation{
		Schema: schemaCountry, Recipient: account, Data: data,
	})
	index.Put(account, schemaCountry, countryUID)
}
