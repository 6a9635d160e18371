package migrations

import "embed"

// FS contains embedded SQLite migrations for assistant storage.
//
//go:embed *.sql
var FS embed.FS
