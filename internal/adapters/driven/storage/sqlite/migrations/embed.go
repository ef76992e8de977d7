// Package migrations embeds the SQL schema migrations for the analysis
// cache and usage log.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
// Files are applied in lexical order of their numeric prefix.
//
//go:embed *.sql
var FS embed.FS
