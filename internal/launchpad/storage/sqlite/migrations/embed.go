package migrations

import "embed"

// FS contains embedded SQLite migrations for launchpad storage.
//
//go:embed *.sql
var FS embed.FS
