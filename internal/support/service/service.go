// Package service coordinates support ticket operations over storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
	"github.com/launchfolio/launchfolio/internal/support"
	"github.com/launchfolio/launchfolio/internal/support/storage"
	"github.com/launchfolio/launchfolio/internal/telemetry"
)

// Service implements support ticket operations.
type Service struct {
	store       storage.TicketStore
	emitter     *telemetry.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = gen }
}

// WithEmitter sets the telemetry emitter.
func WithEmitter(emitter *telemetry.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// New creates a support service.
func New(store storage.TicketStore, opts ...Option) *Service {
	s := &Service{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(ctx context.Context, severity telemetry.Severity, kind, subject, message string) {
	if s.emitter == nil {
		return
	}
	_ = s.emitter.Emit(ctx, telemetry.Event{
		Severity: severity,
		Service:  "support",
		Kind:     kind,
		Subject:  subject,
		Message:  message,
	})
}

// Open files a new support ticket.
func (s *Service) Open(ctx context.Context, input support.CreateTicketInput) (support.Ticket, error) {
	ticket, err := support.CreateTicket(input, s.clock, s.idGenerator)
	if err != nil {
		return support.Ticket{}, err
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return support.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}
	s.emit(ctx, telemetry.SeverityInfo, "ticket.opened", ticket.ID, ticket.Subject)
	return ticket, nil
}

// Get loads one ticket with its replies. Non-operators may only read
// their own tickets.
func (s *Service) Get(ctx context.Context, ticketID, viewerID string, operator bool) (support.Ticket, []support.Reply, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, nil, err
	}
	if !operator && ticket.AuthorID != viewerID {
		return support.Ticket{}, nil, apperrors.New(apperrors.CodeUnauthorized, "ticket belongs to another user")
	}
	replies, err := s.store.ListReplies(ctx, ticket.ID)
	if err != nil {
		return support.Ticket{}, nil, fmt.Errorf("list replies: %w", err)
	}
	return ticket, replies, nil
}

// List returns one page of tickets matching the filter.
func (s *Service) List(ctx context.Context, filter storage.TicketFilter) (storage.TicketPage, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 25
	}
	return s.store.ListTickets(ctx, filter)
}

// Reply appends a message to a ticket thread. A user reply reopens a
// resolved ticket; an operator reply on an open ticket claims it.
func (s *Service) Reply(ctx context.Context, ticketID, authorID, body string, operator bool) (support.Reply, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return support.Reply{}, err
	}
	if !operator && ticket.AuthorID != authorID {
		return support.Reply{}, apperrors.New(apperrors.CodeUnauthorized, "ticket belongs to another user")
	}
	if ticket.Status == support.TicketStatusClosed {
		return support.Reply{}, apperrors.New(apperrors.CodeTicketInvalidTransition, "ticket is closed")
	}

	reply, err := support.CreateReply(ticket.ID, authorID, body, operator, s.clock, s.idGenerator)
	if err != nil {
		return support.Reply{}, err
	}
	if err := s.store.AddReply(ctx, reply); err != nil {
		return support.Reply{}, fmt.Errorf("add reply: %w", err)
	}

	switch {
	case operator && ticket.Status == support.TicketStatusOpen:
		if err := s.transition(ctx, &ticket, support.TicketStatusInProgress); err != nil {
			return support.Reply{}, err
		}
	case !operator && ticket.Status == support.TicketStatusResolved:
		if err := s.transition(ctx, &ticket, support.TicketStatusInProgress); err != nil {
			return support.Reply{}, err
		}
	}
	return reply, nil
}

// Assign sets the operator working a ticket and moves open tickets to
// in progress.
func (s *Service) Assign(ctx context.Context, ticketID, assigneeID string) (support.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, err
	}
	ticket.AssigneeID = assigneeID
	ticket.UpdatedAt = s.clock().UTC()
	if ticket.Status == support.TicketStatusOpen {
		updated, err := support.TransitionTicketStatus(ticket, support.TicketStatusInProgress, s.clock)
		if err != nil {
			return support.Ticket{}, err
		}
		ticket = updated
	}
	if err := s.store.UpdateTicket(ctx, ticket); err != nil {
		return support.Ticket{}, fmt.Errorf("update ticket: %w", err)
	}
	return ticket, nil
}

// Transition moves a ticket to the target status.
func (s *Service) Transition(ctx context.Context, ticketID string, target support.TicketStatus) (support.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return support.Ticket{}, err
	}
	if err := s.transition(ctx, &ticket, target); err != nil {
		return support.Ticket{}, err
	}
	s.emit(ctx, telemetry.SeverityInfo, "ticket.status", ticket.ID, ticket.Status.String())
	return ticket, nil
}

func (s *Service) transition(ctx context.Context, ticket *support.Ticket, target support.TicketStatus) error {
	updated, err := support.TransitionTicketStatus(*ticket, target, s.clock)
	if err != nil {
		return err
	}
	if err := s.store.UpdateTicket(ctx, updated); err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	*ticket = updated
	return nil
}

func (s *Service) getTicket(ctx context.Context, ticketID string) (support.Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, storage.ErrNotFound) {
		return support.Ticket{}, apperrors.New(apperrors.CodeTicketNotFound, "ticket not found")
	}
	if err != nil {
		return support.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}
