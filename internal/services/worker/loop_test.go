package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/telemetry"
)

type fakeSweeper struct {
	mu       sync.Mutex
	sweeps   int
	releases int
	expired  []string
	released []launchpad.Lockup
	sweepErr error
}

func (f *fakeSweeper) SweepExpired(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return f.expired, f.sweepErr
}

func (f *fakeSweeper) ReleaseLockups(context.Context) ([]launchpad.Lockup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return f.released, nil
}

func (f *fakeSweeper) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps, f.releases
}

type fakeRecorder struct {
	mu     sync.Mutex
	inputs []portfolio.RecordTransactionInput
}

func (f *fakeRecorder) Record(_ context.Context, input portfolio.RecordTransactionInput) (portfolio.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	return portfolio.Transaction{}, nil
}

func (f *fakeRecorder) snapshot() []portfolio.RecordTransactionInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]portfolio.RecordTransactionInput(nil), f.inputs...)
}

type fakeTelemetryStore struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (f *fakeTelemetryStore) AppendTelemetryEvent(_ context.Context, evt telemetry.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeTelemetryStore) snapshot() []telemetry.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]telemetry.Event(nil), f.events...)
}

func TestLoopSweepsImmediatelyAndOnInterval(t *testing.T) {
	sweeper := &fakeSweeper{expired: []string{"prop-1"}}
	loop := New(sweeper, nil, nil, Config{
		SweepInterval: 5 * time.Millisecond,
		Jitter:        0,
		Logf:          func(string, ...any) {},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		sweeps, releases := sweeper.counts()
		if sweeps >= 2 && releases >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("loop did not sweep twice: sweeps=%d releases=%d", sweeps, releases)
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopRecordsLockupReleases(t *testing.T) {
	sweeper := &fakeSweeper{released: []launchpad.Lockup{
		{ID: "lock-1", ProposalID: "prop-1", InvestorID: "inv-1", Shares: 40},
	}}
	recorder := &fakeRecorder{}
	loop := New(sweeper, recorder, nil, Config{
		SweepInterval: time.Hour,
		Logf:          func(string, ...any) {},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		inputs := recorder.snapshot()
		if len(inputs) > 0 {
			entry := inputs[0]
			if entry.Type != portfolio.TransactionLockupRelease {
				t.Errorf("entry type = %q, want lockup_release", entry.Type)
			}
			if entry.UserID != "inv-1" || entry.ProposalID != "prop-1" || entry.Shares != 40 {
				t.Errorf("entry = %+v, want inv-1/prop-1/40 shares", entry)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("no ledger entry recorded")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestLoopEmitsTelemetryOnSweepFailure(t *testing.T) {
	store := &fakeTelemetryStore{}
	sweeper := &fakeSweeper{sweepErr: fmt.Errorf("store offline")}
	loop := New(sweeper, nil, telemetry.NewEmitter(store), Config{
		SweepInterval: time.Hour,
		Logf:          func(string, ...any) {},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		events := store.snapshot()
		if len(events) > 0 {
			if events[0].Kind != "worker.sweep_failed" {
				t.Errorf("expected kind worker.sweep_failed, got %q", events[0].Kind)
			}
			if events[0].Severity != telemetry.SeverityError {
				t.Errorf("expected ERROR severity, got %q", events[0].Severity)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("no telemetry event recorded")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopRejectsMissingSweeper(t *testing.T) {
	var nilLoop *Loop
	if err := nilLoop.Run(context.Background()); err == nil {
		t.Fatal("expected error for nil loop")
	}
	if err := New(nil, nil, nil, Config{}).Run(context.Background()); err == nil {
		t.Fatal("expected error for missing sweeper")
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{}.normalized()
	if cfg.SweepInterval != defaultSweepInterval {
		t.Errorf("expected default interval, got %v", cfg.SweepInterval)
	}
	if cfg.Logf == nil {
		t.Error("expected default logf")
	}

	capped := Config{SweepInterval: time.Second, Jitter: time.Minute}.normalized()
	if capped.Jitter != time.Second {
		t.Errorf("expected jitter capped at interval, got %v", capped.Jitter)
	}
}
