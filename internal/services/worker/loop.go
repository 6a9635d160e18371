// Package worker runs the background maintenance loop: expiring
// proposals past their funding deadline and releasing elapsed lockups.
package worker

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/telemetry"
)

const (
	defaultSweepInterval = time.Minute
)

// Sweeper exposes the launchpad maintenance operations the loop drives.
type Sweeper interface {
	// SweepExpired cancels proposals past their funding deadline and
	// returns the ids it expired.
	SweepExpired(ctx context.Context) ([]string, error)
	// ReleaseLockups unlocks elapsed lockups and returns them.
	ReleaseLockups(ctx context.Context) ([]launchpad.Lockup, error)
}

// Recorder mirrors lockup releases into the transaction ledger. May be nil.
type Recorder interface {
	Record(ctx context.Context, input portfolio.RecordTransactionInput) (portfolio.Transaction, error)
}

// Config controls loop timing.
type Config struct {
	// SweepInterval is the base delay between sweeps.
	SweepInterval time.Duration
	// Jitter is the maximum random delay added to each interval so
	// replicas sharing a store do not sweep in lockstep.
	Jitter time.Duration
	// Logf receives loop progress messages. Defaults to log.Printf.
	Logf func(format string, v ...any)
}

func (c Config) normalized() Config {
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	if c.Jitter > c.SweepInterval {
		c.Jitter = c.SweepInterval
	}
	if c.Logf == nil {
		c.Logf = log.Printf
	}
	return c
}

// Loop periodically drives the maintenance sweeps until its context ends.
type Loop struct {
	sweeper  Sweeper
	recorder Recorder
	emitter  *telemetry.Emitter
	cfg      Config
	rng      *rand.Rand
}

// New creates a maintenance loop. The recorder and emitter may be nil.
func New(sweeper Sweeper, recorder Recorder, emitter *telemetry.Emitter, cfg Config) *Loop {
	return &Loop{
		sweeper:  sweeper,
		recorder: recorder,
		emitter:  emitter,
		cfg:      cfg.normalized(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run sweeps immediately, then on a jittered interval, until the context
// is cancelled. Cancellation is a clean exit, not an error.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil || l.sweeper == nil {
		return fmt.Errorf("maintenance loop is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.sweep(ctx)

	timer := time.NewTimer(l.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			l.sweep(ctx)
			timer.Reset(l.nextDelay())
		}
	}
}

func (l *Loop) nextDelay() time.Duration {
	delay := l.cfg.SweepInterval
	if l.cfg.Jitter > 0 {
		delay += time.Duration(l.rng.Int63n(int64(l.cfg.Jitter)))
	}
	return delay
}

// sweep runs both maintenance operations. Failures are logged and
// emitted but never stop the loop.
func (l *Loop) sweep(ctx context.Context) {
	expired, err := l.sweeper.SweepExpired(ctx)
	switch {
	case err != nil:
		l.cfg.Logf("sweep expired proposals: %v", err)
		_ = l.emitter.Emit(ctx, telemetry.Event{
			Severity: telemetry.SeverityError,
			Service:  "worker",
			Kind:     "worker.sweep_failed",
			Message:  err.Error(),
		})
	case len(expired) > 0:
		l.cfg.Logf("expired %d proposals past deadline", len(expired))
	}

	released, err := l.sweeper.ReleaseLockups(ctx)
	switch {
	case err != nil:
		l.cfg.Logf("release lockups: %v", err)
		_ = l.emitter.Emit(ctx, telemetry.Event{
			Severity: telemetry.SeverityError,
			Service:  "worker",
			Kind:     "worker.release_failed",
			Message:  err.Error(),
		})
	case len(released) > 0:
		l.cfg.Logf("released %d elapsed lockups", len(released))
		l.recordReleases(ctx, released)
	}
}

func (l *Loop) recordReleases(ctx context.Context, released []launchpad.Lockup) {
	if l.recorder == nil {
		return
	}
	for _, lockup := range released {
		_, err := l.recorder.Record(ctx, portfolio.RecordTransactionInput{
			UserID:     lockup.InvestorID,
			ProposalID: lockup.ProposalID,
			Type:       portfolio.TransactionLockupRelease,
			Shares:     lockup.Shares,
		})
		if err != nil {
			l.cfg.Logf("record lockup release for %s: %v", lockup.InvestorID, err)
			_ = l.emitter.Emit(ctx, telemetry.Event{
				Severity: telemetry.SeverityError,
				Service:  "worker",
				Kind:     "worker.ledger_record_failed",
				Subject:  lockup.ID,
				Message:  err.Error(),
			})
		}
	}
}
