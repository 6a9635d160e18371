// Package storage defines persistence contracts for support tickets.
package storage

import (
	"context"
	"errors"

	"github.com/launchfolio/launchfolio/internal/support"
)

var (
	// ErrNotFound indicates a requested ticket or reply is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a duplicate ticket or reply id.
	ErrAlreadyExists = errors.New("record already exists")
)

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	// Status filters by ticket status when set.
	Status *support.TicketStatus
	// AuthorID filters by the ticket author when non-empty.
	AuthorID string
	// AssigneeID filters by the assigned operator when non-empty.
	AssigneeID string
	// PageSize caps the number of returned tickets.
	PageSize int
	// PageToken is the last ticket id of the previous page.
	PageToken string
}

// TicketPage is one page of ticket listings.
type TicketPage struct {
	Tickets       []support.Ticket
	NextPageToken string
}

// TicketStore persists support tickets and replies.
type TicketStore interface {
	CreateTicket(ctx context.Context, ticket support.Ticket) error
	GetTicket(ctx context.Context, ticketID string) (support.Ticket, error)
	UpdateTicket(ctx context.Context, ticket support.Ticket) error
	ListTickets(ctx context.Context, filter TicketFilter) (TicketPage, error)
	AddReply(ctx context.Context, reply support.Reply) error
	// ListReplies returns a ticket's replies oldest first.
	ListReplies(ctx context.Context, ticketID string) ([]support.Reply, error)
}
