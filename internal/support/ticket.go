// Package support implements support tickets and their replies.
package support

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// TicketStatus describes the lifecycle of a support ticket.
type TicketStatus int

const (
	// TicketStatusUnspecified represents an invalid ticket status value.
	TicketStatusUnspecified TicketStatus = iota
	// TicketStatusOpen indicates the ticket awaits triage.
	TicketStatusOpen
	// TicketStatusInProgress indicates an operator is working the ticket.
	TicketStatusInProgress
	// TicketStatusResolved indicates the issue was addressed.
	TicketStatusResolved
	// TicketStatusClosed indicates the ticket is finished.
	TicketStatusClosed
)

// TicketPriority orders the support queue.
type TicketPriority int

const (
	// TicketPriorityUnspecified represents an invalid priority value.
	TicketPriorityUnspecified TicketPriority = iota
	TicketPriorityLow
	TicketPriorityNormal
	TicketPriorityHigh
	TicketPriorityUrgent
)

// Ticket represents one support request.
type Ticket struct {
	ID       string
	AuthorID string
	Subject  string
	Body     string
	Priority TicketPriority
	Status   TicketStatus
	// AssigneeID is the operator working the ticket, empty when unassigned.
	AssigneeID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	// ResolvedAt is set when the ticket transitions to resolved.
	ResolvedAt *time.Time
	// ClosedAt is set when the ticket transitions to closed.
	ClosedAt *time.Time
}

// Reply is one message on a ticket thread.
type Reply struct {
	ID       string
	TicketID string
	AuthorID string
	// Operator marks replies written from the admin side.
	Operator  bool
	Body      string
	CreatedAt time.Time
}

// CreateTicketInput describes a new support request.
type CreateTicketInput struct {
	AuthorID string
	Subject  string
	Body     string
	Priority TicketPriority
}

// NormalizeCreateTicketInput trims and validates ticket input.
func NormalizeCreateTicketInput(input CreateTicketInput) (CreateTicketInput, error) {
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Body = strings.TrimSpace(input.Body)

	if input.AuthorID == "" {
		return CreateTicketInput{}, apperrors.New(apperrors.CodeUnauthorized, "ticket author is required")
	}
	if input.Subject == "" {
		return CreateTicketInput{}, apperrors.New(apperrors.CodeTicketEmptySubject, "ticket subject is required")
	}
	if input.Priority == TicketPriorityUnspecified {
		input.Priority = TicketPriorityNormal
	}
	if !validTicketPriority(input.Priority) {
		return CreateTicketInput{}, apperrors.New(apperrors.CodeTicketInvalidPriority, "ticket priority is invalid")
	}
	return input, nil
}

func validTicketPriority(priority TicketPriority) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// CreateTicket creates a new open ticket with generated id and timestamps.
func CreateTicket(input CreateTicketInput, now func() time.Time, idGenerator func() (string, error)) (Ticket, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateTicketInput(input)
	if err != nil {
		return Ticket{}, err
	}

	ticketID, err := idGenerator()
	if err != nil {
		return Ticket{}, fmt.Errorf("generate ticket id: %w", err)
	}

	createdAt := now().UTC()
	return Ticket{
		ID:        ticketID,
		AuthorID:  normalized.AuthorID,
		Subject:   normalized.Subject,
		Body:      normalized.Body,
		Priority:  normalized.Priority,
		Status:    TicketStatusOpen,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// CreateReply creates a reply on a ticket thread.
func CreateReply(ticketID, authorID, body string, operator bool, now func() time.Time, idGenerator func() (string, error)) (Reply, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	ticketID = strings.TrimSpace(ticketID)
	authorID = strings.TrimSpace(authorID)
	body = strings.TrimSpace(body)
	if ticketID == "" {
		return Reply{}, apperrors.New(apperrors.CodeTicketNotFound, "ticket id is required")
	}
	if authorID == "" {
		return Reply{}, apperrors.New(apperrors.CodeUnauthorized, "reply author is required")
	}
	if body == "" {
		return Reply{}, apperrors.New(apperrors.CodeTicketEmptySubject, "reply body is required")
	}

	replyID, err := idGenerator()
	if err != nil {
		return Reply{}, fmt.Errorf("generate reply id: %w", err)
	}
	return Reply{
		ID:        replyID,
		TicketID:  ticketID,
		AuthorID:  authorID,
		Operator:  operator,
		Body:      body,
		CreatedAt: now().UTC(),
	}, nil
}

// TransitionTicketStatus applies a status transition and updates timestamps.
func TransitionTicketStatus(ticket Ticket, target TicketStatus, now func() time.Time) (Ticket, error) {
	if now == nil {
		now = time.Now
	}
	if !isTicketStatusTransitionAllowed(ticket.Status, target) {
		fromStatus := ticketStatusLabel(ticket.Status)
		toStatus := ticketStatusLabel(target)
		return Ticket{}, apperrors.WithMetadata(
			apperrors.CodeTicketInvalidTransition,
			fmt.Sprintf("ticket status transition not allowed: %s -> %s", fromStatus, toStatus),
			map[string]string{"FromStatus": fromStatus, "ToStatus": toStatus},
		)
	}

	updated := ticket
	updated.Status = target
	updatedAt := now().UTC()
	updated.UpdatedAt = updatedAt
	switch target {
	case TicketStatusResolved:
		resolvedAt := updatedAt
		updated.ResolvedAt = &resolvedAt
	case TicketStatusClosed:
		closedAt := updatedAt
		updated.ClosedAt = &closedAt
	}
	return updated, nil
}

func isTicketStatusTransitionAllowed(from, to TicketStatus) bool {
	switch from {
	case TicketStatusOpen:
		return to == TicketStatusInProgress || to == TicketStatusClosed
	case TicketStatusInProgress:
		return to == TicketStatusResolved || to == TicketStatusClosed
	case TicketStatusResolved:
		return to == TicketStatusClosed || to == TicketStatusInProgress
	default:
		return false
	}
}

func ticketStatusLabel(status TicketStatus) string {
	switch status {
	case TicketStatusOpen:
		return "open"
	case TicketStatusInProgress:
		return "in_progress"
	case TicketStatusResolved:
		return "resolved"
	case TicketStatusClosed:
		return "closed"
	default:
		return "unspecified"
	}
}

// ParseTicketStatus maps a wire label to a ticket status.
func ParseTicketStatus(value string) (TicketStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return TicketStatusOpen, true
	case "in_progress":
		return TicketStatusInProgress, true
	case "resolved":
		return TicketStatusResolved, true
	case "closed":
		return TicketStatusClosed, true
	}
	return TicketStatusUnspecified, false
}

// String returns the wire label for a ticket status.
func (s TicketStatus) String() string {
	return ticketStatusLabel(s)
}

func ticketPriorityLabel(priority TicketPriority) string {
	switch priority {
	case TicketPriorityLow:
		return "low"
	case TicketPriorityNormal:
		return "normal"
	case TicketPriorityHigh:
		return "high"
	case TicketPriorityUrgent:
		return "urgent"
	default:
		return "unspecified"
	}
}

// ParseTicketPriority maps a wire label to a ticket priority.
func ParseTicketPriority(value string) (TicketPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return TicketPriorityLow, true
	case "normal":
		return TicketPriorityNormal, true
	case "high":
		return TicketPriorityHigh, true
	case "urgent":
		return TicketPriorityUrgent, true
	}
	return TicketPriorityUnspecified, false
}

// String returns the wire label for a ticket priority.
func (p TicketPriority) String() string {
	return ticketPriorityLabel(p)
}
