package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/gatedwrap/eventsource"
)

// audit prints a stream's events from a SQLite audit database and verifies
// the digest chain over them.
func audit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	dbPath := fs.String("db", "audit.db", "SQLite audit database")
	stream := fs.String("stream", "wrapper", "event stream to verify")
	export := fs.String("export", "", "write events to a JSONL file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := eventsource.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	events, err := store.Read(ctx, *stream, 0)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("stream %q is empty", *stream)
	}

	for _, e := range events {
		fmt.Printf("%4d  %-20s %s  %s\n", e.Version, e.Type,
			e.Time.Format("2006-01-02 15:04:05"), string(e.Data))
	}

	if *export != "" {
		f, err := os.Create(*export)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := eventsource.WriteJSONL(f, events); err != nil {
			return err
		}
		fmt.Printf("exported %d events to %s\n", len(events), *export)
	}

	digest, err := store.Digest(ctx, *stream)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d events, head digest %s\n", len(events), hex.EncodeToString(digest))
	if !eventsource.VerifyChain(events, digest) {
		return fmt.Errorf("digest chain verification FAILED for stream %q", *stream)
	}
	fmt.Println("digest chain verified")
	return nil
}
