package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/telemetry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestAppendAndListEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

	events := []telemetry.Event{
		{Timestamp: base, Severity: telemetry.SeverityInfo, Service: "api", Kind: "ticket.opened", Subject: "ticket-1", Message: "slow dashboard"},
		{Timestamp: base.Add(time.Minute), Severity: telemetry.SeverityWarn, Service: "worker", Kind: "sweep.failed", Subject: "prop-1", Message: "deadline sweep error", Metadata: map[string]string{"Attempt": "2"}},
		{Timestamp: base.Add(2 * time.Minute), Severity: telemetry.SeverityInfo, Service: "api", Kind: "proposal.funded", Subject: "prop-2", Message: "target reached"},
	}
	for _, evt := range events {
		if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	listed, err := store.ListEvents(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 events, got %d", len(listed))
	}
	if listed[0].Kind != "proposal.funded" {
		t.Fatalf("expected newest event first, got %q", listed[0].Kind)
	}
	if listed[1].Metadata["Attempt"] != "2" {
		t.Fatalf("expected metadata roundtrip, got %v", listed[1].Metadata)
	}
}

func TestListEventsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

	seed := []telemetry.Event{
		{Timestamp: base, Service: "api", Kind: "ticket.opened", Severity: telemetry.SeverityInfo},
		{Timestamp: base.Add(time.Hour), Service: "worker", Kind: "sweep.failed", Severity: telemetry.SeverityError},
		{Timestamp: base.Add(2 * time.Hour), Service: "worker", Kind: "lockup.released", Severity: telemetry.SeverityInfo},
	}
	for _, evt := range seed {
		if err := store.AppendTelemetryEvent(ctx, evt); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	byService, err := store.ListEvents(ctx, EventFilter{Service: "worker"})
	if err != nil {
		t.Fatalf("list by service: %v", err)
	}
	if len(byService) != 2 {
		t.Fatalf("expected 2 worker events, got %d", len(byService))
	}

	byKind, err := store.ListEvents(ctx, EventFilter{Kind: "sweep.failed"})
	if err != nil {
		t.Fatalf("list by kind: %v", err)
	}
	if len(byKind) != 1 || byKind[0].Severity != telemetry.SeverityError {
		t.Fatalf("unexpected kind filter result: %+v", byKind)
	}

	since, err := store.ListEvents(ctx, EventFilter{Since: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(since) != 1 || since[0].Kind != "lockup.released" {
		t.Fatalf("unexpected since filter result: %+v", since)
	}

	limited, err := store.ListEvents(ctx, EventFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Kind != "lockup.released" {
		t.Fatalf("unexpected limit result: %+v", limited)
	}
}
