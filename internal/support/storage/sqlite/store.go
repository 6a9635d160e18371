// Package sqlite provides a SQLite-backed support ticket store.
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
	"github.com/launchfolio/launchfolio/internal/support"
	"github.com/launchfolio/launchfolio/internal/support/storage"
	"github.com/launchfolio/launchfolio/internal/support/storage/sqlite/migrations"
)

// Store persists support tickets in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) any {
	if value == nil {
		return nil
	}
	return toMillis(*value)
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	parsed := fromMillis(value.Int64)
	return &parsed
}

// Open opens a SQLite support store and applies embedded migrations.
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

const ticketColumns = `id, author_id, subject, body, priority, status, assignee_id, created_at, updated_at, resolved_at, closed_at`

func scanTicket(row interface{ Scan(...any) error }) (support.Ticket, error) {
	var ticket support.Ticket
	var createdAt, updatedAt int64
	var resolvedAt, closedAt sql.NullInt64
	err := row.Scan(
		&ticket.ID, &ticket.AuthorID, &ticket.Subject, &ticket.Body,
		(*int)(&ticket.Priority), (*int)(&ticket.Status), &ticket.AssigneeID,
		&createdAt, &updatedAt, &resolvedAt, &closedAt,
	)
	if err != nil {
		return support.Ticket{}, err
	}
	ticket.CreatedAt = fromMillis(createdAt)
	ticket.UpdatedAt = fromMillis(updatedAt)
	ticket.ResolvedAt = fromNullMillis(resolvedAt)
	ticket.ClosedAt = fromNullMillis(closedAt)
	return ticket, nil
}

// CreateTicket inserts a new ticket.
func (s *Store) CreateTicket(ctx context.Context, ticket support.Ticket) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(ticket.ID) == "" {
		return fmt.Errorf("ticket id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID, ticket.AuthorID, ticket.Subject, ticket.Body,
		int(ticket.Priority), int(ticket.Status), ticket.AssigneeID,
		toMillis(ticket.CreatedAt), toMillis(ticket.UpdatedAt),
		toNullMillis(ticket.ResolvedAt), toNullMillis(ticket.ClosedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetTicket loads one ticket by id.
func (s *Store) GetTicket(ctx context.Context, ticketID string) (support.Ticket, error) {
	if err := s.ready(ctx); err != nil {
		return support.Ticket{}, err
	}
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return support.Ticket{}, fmt.Errorf("ticket id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, ticketID)
	ticket, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return support.Ticket{}, storage.ErrNotFound
	}
	if err != nil {
		return support.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

// UpdateTicket persists ticket mutations.
func (s *Store) UpdateTicket(ctx context.Context, ticket support.Ticket) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(ticket.ID) == "" {
		return fmt.Errorf("ticket id is required")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE tickets SET subject = ?, body = ?, priority = ?, status = ?, assignee_id = ?,
			updated_at = ?, resolved_at = ?, closed_at = ? WHERE id = ?`,
		ticket.Subject, ticket.Body, int(ticket.Priority), int(ticket.Status), ticket.AssigneeID,
		toMillis(ticket.UpdatedAt), toNullMillis(ticket.ResolvedAt), toNullMillis(ticket.ClosedAt),
		ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListTickets returns one page of matching tickets ordered by id.
func (s *Store) ListTickets(ctx context.Context, filter storage.TicketFilter) (storage.TicketPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.TicketPage{}, err
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		return storage.TicketPage{}, fmt.Errorf("page size must be greater than zero")
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE 1=1`
	var args []any
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, int(*filter.Status))
	}
	if author := strings.TrimSpace(filter.AuthorID); author != "" {
		query += ` AND author_id = ?`
		args = append(args, author)
	}
	if assignee := strings.TrimSpace(filter.AssigneeID); assignee != "" {
		query += ` AND assignee_id = ?`
		args = append(args, assignee)
	}
	if token := strings.TrimSpace(filter.PageToken); token != "" {
		query += ` AND id > ?`
		args = append(args, token)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.TicketPage{}, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	page := storage.TicketPage{Tickets: make([]support.Ticket, 0, pageSize)}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return storage.TicketPage{}, fmt.Errorf("scan ticket: %w", err)
		}
		page.Tickets = append(page.Tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return storage.TicketPage{}, fmt.Errorf("scan tickets: %w", err)
	}
	if len(page.Tickets) > pageSize {
		page.Tickets = page.Tickets[:pageSize]
		page.NextPageToken = page.Tickets[pageSize-1].ID
	}
	return page, nil
}

// AddReply appends one reply to a ticket thread.
func (s *Store) AddReply(ctx context.Context, reply support.Reply) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(reply.ID) == "" {
		return fmt.Errorf("reply id is required")
	}
	operator := 0
	if reply.Operator {
		operator = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO ticket_replies (id, ticket_id, author_id, operator, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		reply.ID, reply.TicketID, reply.AuthorID, operator, reply.Body, toMillis(reply.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("add reply: %w", err)
	}
	return nil
}

// ListReplies returns a ticket's replies oldest first.
func (s *Store) ListReplies(ctx context.Context, ticketID string) ([]support.Reply, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, fmt.Errorf("ticket id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, ticket_id, author_id, operator, body, created_at FROM ticket_replies
			WHERE ticket_id = ? ORDER BY created_at ASC, id ASC`,
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var replies []support.Reply
	for rows.Next() {
		var reply support.Reply
		var operator int
		var createdAt int64
		if err := rows.Scan(&reply.ID, &reply.TicketID, &reply.AuthorID, &operator, &reply.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		reply.Operator = operator != 0
		reply.CreatedAt = fromMillis(createdAt)
		replies = append(replies, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan replies: %w", err)
	}
	return replies, nil
}
