package migrations

import "embed"

// FS contains embedded SQLite migrations for tour storage.
//
//go:embed *.sql
var FS embed.FS
