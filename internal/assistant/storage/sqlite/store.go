// Package sqlite provides SQLite-backed assistant storage.
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

	"github.com/launchfolio/launchfolio/internal/assistant"
	"github.com/launchfolio/launchfolio/internal/assistant/storage"
	"github.com/launchfolio/launchfolio/internal/assistant/storage/sqlite/migrations"
	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
)

// Store persists assistant data in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite assistant store and applies embedded migrations.
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

// CreateConversation inserts a new conversation.
func (s *Store) CreateConversation(ctx context.Context, conversation assistant.Conversation) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(conversation.ID) == "" {
		return fmt.Errorf("conversation id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		conversation.ID, conversation.UserID, conversation.Title,
		toMillis(conversation.CreatedAt), toMillis(conversation.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// GetConversation loads one conversation by id.
func (s *Store) GetConversation(ctx context.Context, conversationID string) (assistant.Conversation, error) {
	if err := s.ready(ctx); err != nil {
		return assistant.Conversation{}, err
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return assistant.Conversation{}, fmt.Errorf("conversation id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = ?`,
		conversationID,
	)
	var conversation assistant.Conversation
	var createdAt, updatedAt int64
	err := row.Scan(&conversation.ID, &conversation.UserID, &conversation.Title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return assistant.Conversation{}, storage.ErrNotFound
	}
	if err != nil {
		return assistant.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	conversation.CreatedAt = fromMillis(createdAt)
	conversation.UpdatedAt = fromMillis(updatedAt)
	return conversation, nil
}

// TouchConversation bumps a conversation's updated timestamp.
func (s *Store) TouchConversation(ctx context.Context, conversationID string, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		toMillis(updatedAt), strings.TrimSpace(conversationID),
	)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch conversation rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListConversations returns a user's threads newest first.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]assistant.Conversation, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations
			WHERE user_id = ? ORDER BY updated_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []assistant.Conversation
	for rows.Next() {
		var conversation assistant.Conversation
		var createdAt, updatedAt int64
		if err := rows.Scan(&conversation.ID, &conversation.UserID, &conversation.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversation.CreatedAt = fromMillis(createdAt)
		conversation.UpdatedAt = fromMillis(updatedAt)
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan conversations: %w", err)
	}
	return conversations, nil
}

// AppendMessage adds one conversation turn.
func (s *Store) AppendMessage(ctx context.Context, message assistant.Message) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(message.ID) == "" {
		return fmt.Errorf("message id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		message.ID, message.ConversationID, string(message.Role), message.Content, toMillis(message.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's turns oldest first.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]assistant.Message, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, conversation_id, role, content, created_at FROM messages
			WHERE conversation_id = ? ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []assistant.Message
	for rows.Next() {
		var message assistant.Message
		var createdAt int64
		if err := rows.Scan(&message.ID, &message.ConversationID, (*string)(&message.Role), &message.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		message.CreatedAt = fromMillis(createdAt)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	return messages, nil
}

// IncrementUsage bumps and returns the user's message count for a day.
func (s *Store) IncrementUsage(ctx context.Context, userID, day string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	userID = strings.TrimSpace(userID)
	day = strings.TrimSpace(day)
	if userID == "" || day == "" {
		return 0, fmt.Errorf("user id and day are required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`INSERT INTO daily_usage (user_id, day, count) VALUES (?, ?, 1)
			ON CONFLICT(user_id, day) DO UPDATE SET count = count + 1
			RETURNING count`,
		userID, day,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return count, nil
}

// GetUsage returns the user's message count for a day.
func (s *Store) GetUsage(ctx context.Context, userID, day string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT count FROM daily_usage WHERE user_id = ? AND day = ?`,
		strings.TrimSpace(userID), strings.TrimSpace(day),
	)
	var count int
	err := row.Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return count, nil
}

// GetAnalysis loads one cached proposal analysis.
func (s *Store) GetAnalysis(ctx context.Context, proposalID, inputHash string) (storage.Analysis, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Analysis{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT proposal_id, input_hash, result, created_at FROM proposal_analyses
			WHERE proposal_id = ? AND input_hash = ?`,
		strings.TrimSpace(proposalID), strings.TrimSpace(inputHash),
	)
	var analysis storage.Analysis
	var createdAt int64
	err := row.Scan(&analysis.ProposalID, &analysis.InputHash, &analysis.Result, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Analysis{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Analysis{}, fmt.Errorf("get analysis: %w", err)
	}
	analysis.CreatedAt = fromMillis(createdAt)
	return analysis, nil
}

// PutAnalysis caches one proposal analysis, replacing any previous result
// for the same input.
func (s *Store) PutAnalysis(ctx context.Context, analysis storage.Analysis) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(analysis.ProposalID) == "" || strings.TrimSpace(analysis.InputHash) == "" {
		return fmt.Errorf("proposal id and input hash are required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO proposal_analyses (proposal_id, input_hash, result, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(proposal_id, input_hash) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		analysis.ProposalID, analysis.InputHash, analysis.Result, toMillis(analysis.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put analysis: %w", err)
	}
	return nil
}
