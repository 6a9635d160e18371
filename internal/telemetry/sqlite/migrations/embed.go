package migrations

import "embed"

// FS contains embedded SQLite migrations for telemetry storage.
//
//go:embed *.sql
var FS embed.FS
