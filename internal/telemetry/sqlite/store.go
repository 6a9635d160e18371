// Package sqlite provides a SQLite-backed telemetry event store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
	"github.com/launchfolio/launchfolio/internal/telemetry"
	"github.com/launchfolio/launchfolio/internal/telemetry/sqlite/migrations"
)

// Store persists telemetry events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite telemetry store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// AppendTelemetryEvent writes one event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt telemetry.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	var metadata any
	if len(evt.Metadata) > 0 {
		encoded, err := json.Marshal(evt.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(encoded)
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (ts_ms, severity, service, kind, subject, message, metadata_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		toMillis(evt.Timestamp),
		string(evt.Severity),
		evt.Service,
		evt.Kind,
		evt.Subject,
		evt.Message,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("insert telemetry event: %w", err)
	}
	return nil
}

// EventFilter narrows telemetry listings.
type EventFilter struct {
	// Service filters by emitting service when non-empty.
	Service string
	// Kind filters by event kind when non-empty.
	Kind string
	// Since drops events older than the given time when non-zero.
	Since time.Time
	// Limit caps the number of returned events, newest first.
	Limit int
}

// ListEvents returns recent telemetry events, newest first.
func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]telemetry.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	query := `SELECT ts_ms, severity, service, kind, subject, message, metadata_json
		FROM telemetry_events WHERE 1=1`
	args := []any{}
	if filter.Service != "" {
		query += " AND service = ?"
		args = append(args, filter.Service)
	}
	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if !filter.Since.IsZero() {
		query += " AND ts_ms >= ?"
		args = append(args, toMillis(filter.Since))
	}
	query += " ORDER BY ts_ms DESC, id DESC LIMIT ?"
	args = append(args, filter.Limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	defer rows.Close()

	var events []telemetry.Event
	for rows.Next() {
		var (
			evt      telemetry.Event
			tsMillis int64
			severity string
			metadata sql.NullString
		)
		if err := rows.Scan(&tsMillis, &severity, &evt.Service, &evt.Kind, &evt.Subject, &evt.Message, &metadata); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		evt.Timestamp = fromMillis(tsMillis)
		evt.Severity = telemetry.Severity(severity)
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &evt.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan telemetry events: %w", err)
	}
	return events, nil
}
