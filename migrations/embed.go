// Package migrations embeds the PostgreSQL schema migrations so the server
// and the migrate CLI do not depend on the working directory.
package migrations

import "embed"

// FS holds the numbered up/down SQL files
//
//go:embed *.sql
var FS embed.FS
