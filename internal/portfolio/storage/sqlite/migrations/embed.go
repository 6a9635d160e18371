package migrations

import "embed"

// FS contains embedded SQLite migrations for portfolio storage.
//
//go:embed *.sql
var FS embed.FS
