// Package telemetry records operational events into a persistent store so
// operators can audit service behavior without scraping logs.
package telemetry

import (
	"context"
	"time"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event is a single operational telemetry record.
type Event struct {
	Timestamp time.Time
	Severity  Severity
	Service   string
	Kind      string
	Subject   string
	Message   string
	Metadata  map[string]string
}

// Store persists telemetry events.
type Store interface {
	AppendTelemetryEvent(ctx context.Context, evt Event) error
}

// Emitter records operational telemetry events.
type Emitter struct {
	store Store
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store Store) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.Severity == "" {
		evt.Severity = SeverityInfo
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// Warn emits a WARN event with the given kind, subject, and message.
func (e *Emitter) Warn(ctx context.Context, kind, subject, message string) error {
	return e.Emit(ctx, Event{Severity: SeverityWarn, Kind: kind, Subject: subject, Message: message})
}

// Info emits an INFO event with the given kind, subject, and message.
func (e *Emitter) Info(ctx context.Context, kind, subject, message string) error {
	return e.Emit(ctx, Event{Severity: SeverityInfo, Kind: kind, Subject: subject, Message: message})
}
