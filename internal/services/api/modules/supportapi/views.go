package supportapi

import (
	"time"

	"github.com/launchfolio/launchfolio/internal/support"
	"github.com/launchfolio/launchfolio/internal/support/storage"
)

type ticketView struct {
	ID         string  `json:"id"`
	AuthorID   string  `json:"author_id"`
	Subject    string  `json:"subject"`
	Body       string  `json:"body"`
	Priority   string  `json:"priority"`
	Status     string  `json:"status"`
	AssigneeID string  `json:"assignee_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	ClosedAt   *string `json:"closed_at,omitempty"`
}

func newTicketView(ticket support.Ticket) ticketView {
	return ticketView{
		ID:         ticket.ID,
		AuthorID:   ticket.AuthorID,
		Subject:    ticket.Subject,
		Body:       ticket.Body,
		Priority:   ticket.Priority.String(),
		Status:     ticket.Status.String(),
		AssigneeID: ticket.AssigneeID,
		CreatedAt:  ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  ticket.UpdatedAt.Format(time.RFC3339),
		ResolvedAt: formatOptional(ticket.ResolvedAt),
		ClosedAt:   formatOptional(ticket.ClosedAt),
	}
}

func formatOptional(at *time.Time) *string {
	if at == nil {
		return nil
	}
	formatted := at.Format(time.RFC3339)
	return &formatted
}

type replyView struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	AuthorID  string `json:"author_id"`
	Operator  bool   `json:"operator"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func newReplyView(reply support.Reply) replyView {
	return replyView{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		AuthorID:  reply.AuthorID,
		Operator:  reply.Operator,
		Body:      reply.Body,
		CreatedAt: reply.CreatedAt.Format(time.RFC3339),
	}
}

type ticketPageView struct {
	Tickets       []ticketView `json:"tickets"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

func newTicketPageView(page storage.TicketPage) ticketPageView {
	tickets := make([]ticketView, 0, len(page.Tickets))
	for _, ticket := range page.Tickets {
		tickets = append(tickets, newTicketView(ticket))
	}
	return ticketPageView{Tickets: tickets, NextPageToken: page.NextPageToken}
}

type ticketThreadView struct {
	Ticket  ticketView  `json:"ticket"`
	Replies []replyView `json:"replies"`
}

func newTicketThreadView(ticket support.Ticket, replies []support.Reply) ticketThreadView {
	views := make([]replyView, 0, len(replies))
	for _, reply := range replies {
		views = append(views, newReplyView(reply))
	}
	return ticketThreadView{Ticket: newTicketView(ticket), Replies: views}
}
