// Package sqlite provides a SQLite-backed tour storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
	"github.com/launchfolio/launchfolio/internal/tour"
	"github.com/launchfolio/launchfolio/internal/tour/storage"
	"github.com/launchfolio/launchfolio/internal/tour/storage/sqlite/migrations"
)

// Store persists tour state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite tour store and applies embedded migrations.
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

// GetRunState assembles the user's tour state from runs, completions, and
// preferences. Missing rows produce an idle state with default preferences.
func (s *Store) GetRunState(ctx context.Context, userID string) (tour.RunState, error) {
	if err := ctx.Err(); err != nil {
		return tour.RunState{}, err
	}
	if s == nil || s.sqlDB == nil {
		return tour.RunState{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tour.RunState{}, fmt.Errorf("user id is required")
	}

	state := tour.NewRunState()

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT active_tour_id, step_index FROM tour_runs WHERE user_id = ?`,
		userID,
	)
	err := row.Scan(&state.ActiveTourID, &state.StepIndex)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return tour.RunState{}, fmt.Errorf("get tour run: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT tour_id FROM tour_completions WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return tour.RunState{}, fmt.Errorf("list tour completions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tourID string
		if err := rows.Scan(&tourID); err != nil {
			return tour.RunState{}, fmt.Errorf("scan tour completion: %w", err)
		}
		state.Completed[tourID] = true
	}
	if err := rows.Err(); err != nil {
		return tour.RunState{}, fmt.Errorf("scan tour completions: %w", err)
	}

	prefRow := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT skip_intros, auto_progress, show_hints FROM tour_preferences WHERE user_id = ?`,
		userID,
	)
	var skipIntros, autoProgress, showHints int
	err = prefRow.Scan(&skipIntros, &autoProgress, &showHints)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return tour.RunState{}, fmt.Errorf("get tour preferences: %w", err)
		}
	} else {
		state.Preferences = tour.Preferences{
			SkipIntros:   skipIntros != 0,
			AutoProgress: autoProgress != 0,
			ShowHints:    showHints != 0,
		}
	}
	return state, nil
}

// PutActive stores the active tour and step index for a user. An empty tour
// id clears the active tour.
func (s *Store) PutActive(ctx context.Context, userID, tourID string, stepIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if stepIndex < 0 {
		return fmt.Errorf("step index must not be negative")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tour_runs (user_id, active_tour_id, step_index, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   active_tour_id = excluded.active_tour_id,
		   step_index = excluded.step_index,
		   updated_at = excluded.updated_at`,
		userID,
		strings.TrimSpace(tourID),
		stepIndex,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put tour run: %w", err)
	}
	return nil
}

// AddCompletion records a finished tour. Repeat completions are ignored.
func (s *Store) AddCompletion(ctx context.Context, userID, tourID string, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	tourID = strings.TrimSpace(tourID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if tourID == "" {
		return fmt.Errorf("tour id is required")
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tour_completions (user_id, tour_id, completed_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id, tour_id) DO NOTHING`,
		userID,
		tourID,
		toMillis(completedAt),
	)
	if err != nil {
		return fmt.Errorf("add tour completion: %w", err)
	}
	return nil
}

// ListCompletions returns the user's completions ordered by tour id.
func (s *Store) ListCompletions(ctx context.Context, userID string) ([]storage.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT tour_id, completed_at
		   FROM tour_completions
		  WHERE user_id = ?
		  ORDER BY tour_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tour completions: %w", err)
	}
	defer rows.Close()

	var completions []storage.Completion
	for rows.Next() {
		var c storage.Completion
		var completedAt int64
		if err := rows.Scan(&c.TourID, &completedAt); err != nil {
			return nil, fmt.Errorf("scan tour completion: %w", err)
		}
		c.UserID = userID
		c.CompletedAt = fromMillis(completedAt)
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan tour completions: %w", err)
	}
	return completions, nil
}

// PutPreferences replaces the user's tour preferences.
func (s *Store) PutPreferences(ctx context.Context, userID string, prefs tour.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	boolToInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tour_preferences (user_id, skip_intros, auto_progress, show_hints, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   skip_intros = excluded.skip_intros,
		   auto_progress = excluded.auto_progress,
		   show_hints = excluded.show_hints,
		   updated_at = excluded.updated_at`,
		userID,
		boolToInt(prefs.SkipIntros),
		boolToInt(prefs.AutoProgress),
		boolToInt(prefs.ShowHints),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put tour preferences: %w", err)
	}
	return nil
}

// ResetRunState removes the user's tour progress, completions, and
// preferences. Missing rows are not an error.
func (s *Store) ResetRunState(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	for _, table := range []string{"tour_runs", "tour_completions", "tour_preferences"} {
		if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
