package telemetry

import (
	"context"
	"testing"
	"time"
)

type captureStore struct {
	events []Event
	err    error
}

func (s *captureStore) AppendTelemetryEvent(_ context.Context, evt Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, evt)
	return nil
}

func TestEmitStampsTimestampAndSeverity(t *testing.T) {
	store := &captureStore{}
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	emitter := NewEmitter(store)
	emitter.clock = func() time.Time { return fixed }

	if err := emitter.Emit(context.Background(), Event{Kind: "tour.target_timeout", Subject: "welcome-tour"}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	evt := store.events[0]
	if evt.Timestamp != fixed {
		t.Fatalf("timestamp = %v, want %v", evt.Timestamp, fixed)
	}
	if evt.Severity != SeverityInfo {
		t.Fatalf("severity = %q, want %q", evt.Severity, SeverityInfo)
	}
}

func TestEmitPreservesExplicitTimestamp(t *testing.T) {
	store := &captureStore{}
	emitter := NewEmitter(store)

	explicit := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	if err := emitter.Emit(context.Background(), Event{Timestamp: explicit, Severity: SeverityError, Kind: "sweep.failed"}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	if store.events[0].Timestamp != explicit {
		t.Fatalf("timestamp = %v, want %v", store.events[0].Timestamp, explicit)
	}
	if store.events[0].Severity != SeverityError {
		t.Fatalf("severity = %q", store.events[0].Severity)
	}
}

func TestEmitNilEmitterAndStore(t *testing.T) {
	var emitter *Emitter
	if err := emitter.Emit(context.Background(), Event{}); err != nil {
		t.Fatalf("nil emitter should be a no-op, got %v", err)
	}

	emitter = NewEmitter(nil)
	if err := emitter.Warn(context.Background(), "kind", "subject", "message"); err != nil {
		t.Fatalf("nil store should be a no-op, got %v", err)
	}
}
