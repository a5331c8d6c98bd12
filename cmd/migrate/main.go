// Command migrate manages the billbook database schema.
//
// PostgreSQL databases are migrated with the numbered SQL files embedded from
// migrations/. SQLite and MySQL databases, used for local development, are
// created from the persistence models instead.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
