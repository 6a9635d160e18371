package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/support"
	"github.com/launchfolio/launchfolio/internal/support/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "support.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func sampleTicket(id string) support.Ticket {
	createdAt := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	return support.Ticket{
		ID:        id,
		AuthorID:  "user-1",
		Subject:   "Missing distribution",
		Body:      "The payout from last week is not showing.",
		Priority:  support.TicketPriorityNormal,
		Status:    support.TicketStatusOpen,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStoreTicketRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ticket := sampleTicket("ticket-1")

	if err := store.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}
	loaded, err := store.GetTicket(ctx, "ticket-1")
	if err != nil {
		t.Fatalf("GetTicket returned error: %v", err)
	}
	if loaded != ticket {
		t.Errorf("loaded = %+v, want %+v", loaded, ticket)
	}
}

func TestStoreCreateTicketDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.CreateTicket(ctx, sampleTicket("ticket-1")); err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}
	if err := store.CreateTicket(ctx, sampleTicket("ticket-1")); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate CreateTicket error = %v, want ErrAlreadyExists", err)
	}
}

func TestStoreUpdateTicketLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ticket := sampleTicket("ticket-1")
	if err := store.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}

	resolvedAt := ticket.CreatedAt.Add(2 * time.Hour)
	ticket.Status = support.TicketStatusResolved
	ticket.AssigneeID = "operator-1"
	ticket.UpdatedAt = resolvedAt
	ticket.ResolvedAt = &resolvedAt
	if err := store.UpdateTicket(ctx, ticket); err != nil {
		t.Fatalf("UpdateTicket returned error: %v", err)
	}

	loaded, err := store.GetTicket(ctx, "ticket-1")
	if err != nil {
		t.Fatalf("GetTicket returned error: %v", err)
	}
	if loaded.Status != support.TicketStatusResolved || loaded.AssigneeID != "operator-1" {
		t.Errorf("loaded = %+v, want resolved and assigned", loaded)
	}
	if loaded.ResolvedAt == nil || !loaded.ResolvedAt.Equal(resolvedAt) {
		t.Errorf("ResolvedAt = %v, want %v", loaded.ResolvedAt, resolvedAt)
	}
}

func TestStoreUpdateMissingTicket(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateTicket(context.Background(), sampleTicket("missing"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateTicket error = %v, want ErrNotFound", err)
	}
}

func TestStoreGetMissingTicket(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetTicket(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTicket error = %v, want ErrNotFound", err)
	}
}

func TestStoreListTicketsFilterAndPage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for i := range 3 {
		ticket := sampleTicket(fmt.Sprintf("ticket-%d", i))
		if i == 1 {
			ticket.Status = support.TicketStatusClosed
		}
		if err := store.CreateTicket(ctx, ticket); err != nil {
			t.Fatalf("CreateTicket returned error: %v", err)
		}
	}

	open := support.TicketStatusOpen
	page, err := store.ListTickets(ctx, storage.TicketFilter{Status: &open, PageSize: 1})
	if err != nil {
		t.Fatalf("ListTickets returned error: %v", err)
	}
	if len(page.Tickets) != 1 || page.Tickets[0].ID != "ticket-0" {
		t.Fatalf("first page = %+v, want only ticket-0", page.Tickets)
	}
	if page.NextPageToken != "ticket-0" {
		t.Fatalf("NextPageToken = %q, want ticket-0", page.NextPageToken)
	}

	next, err := store.ListTickets(ctx, storage.TicketFilter{Status: &open, PageSize: 1, PageToken: page.NextPageToken})
	if err != nil {
		t.Fatalf("ListTickets returned error: %v", err)
	}
	if len(next.Tickets) != 1 || next.Tickets[0].ID != "ticket-2" {
		t.Errorf("second page = %+v, want only ticket-2", next.Tickets)
	}
	if next.NextPageToken != "" {
		t.Errorf("NextPageToken = %q, want empty on the last page", next.NextPageToken)
	}
}

func TestStoreRepliesOrderedOldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.CreateTicket(ctx, sampleTicket("ticket-1")); err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}

	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		reply := support.Reply{
			ID:        fmt.Sprintf("reply-%d", i),
			TicketID:  "ticket-1",
			AuthorID:  "user-1",
			Operator:  i == 1,
			Body:      fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.AddReply(ctx, reply); err != nil {
			t.Fatalf("AddReply returned error: %v", err)
		}
	}

	replies, err := store.ListReplies(ctx, "ticket-1")
	if err != nil {
		t.Fatalf("ListReplies returned error: %v", err)
	}
	if len(replies) != 3 {
		t.Fatalf("listed %d replies, want 3", len(replies))
	}
	if replies[0].ID != "reply-0" || replies[2].ID != "reply-2" {
		t.Errorf("unexpected order: %q first, %q last", replies[0].ID, replies[2].ID)
	}
	if !replies[1].Operator {
		t.Errorf("reply-1 Operator = false, want true")
	}
}
