// grantadmin promotes an existing account to administrator (and the elite
// plan) directly against the database. Intended for operator use when the
// bootstrap admin is unavailable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rcastillo/chartsight/internal/storage"
)

func main() {
	dbPath := flag.String("db", "data/chartsight.db", "path to SQLite database")
	username := flag.String("user", "", "username to promote")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: grantadmin -user <username> [-db <path>]")
		os.Exit(1)
	}

	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	acc, err := repo.FindAccountByUsername(*username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "account %q not found: %v\n", *username, err)
		os.Exit(1)
	}

	if acc.Admin {
		fmt.Printf("account %q is already an administrator\n", acc.Username)
		return
	}

	if err := repo.PromoteAdmin(acc.ID); err != nil {
		fmt.Fprintf(os.Stderr, "promote: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("account %q promoted to administrator (plan: elite)\n", acc.Username)
}
