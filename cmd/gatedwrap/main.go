// Command gatedwrap exercises the permission-gated wrapper against
// in-memory collaborators and inspects the audit trail it leaves behind.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "audit":
		if err := audit(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gatedwrap - permission-gated wrapped-asset ledger

Usage:
  gatedwrap <command> [options]

Commands:
  demo    Run a scripted session against an in-memory deployment
  audit   Verify and print the audit event chain from a database
  help    Show this help

Examples:
  gatedwrap demo -db audit.db
  gatedwrap audit -db audit.db`)
}
