package tour

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForImmediate(t *testing.T) {
	calls := 0
	err := WaitFor(context.Background(), time.Millisecond, 50*time.Millisecond, func(context.Context) (bool, error) {
		calls++
		return true, nil
	})
	if err != nil {
		t.Fatalf("WaitFor() = %v, want nil", err)
	}
	if calls != 1 {
		t.Fatalf("probe calls = %d, want 1", calls)
	}
}

func TestWaitForEventuallyTrue(t *testing.T) {
	calls := 0
	err := WaitFor(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	if err != nil {
		t.Fatalf("WaitFor() = %v, want nil", err)
	}
	if calls < 3 {
		t.Fatalf("probe calls = %d, want at least 3", calls)
	}
}

func TestWaitForTimeout(t *testing.T) {
	err := WaitFor(context.Background(), time.Millisecond, 20*time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("WaitFor() = %v, want ErrWaitTimeout", err)
	}
}

func TestWaitForProbeError(t *testing.T) {
	probeErr := errors.New("probe failed")
	err := WaitFor(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, probeErr
	})
	if !errors.Is(err, probeErr) {
		t.Fatalf("WaitFor() = %v, want probe error", err)
	}
}

func TestWaitForContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitFor(ctx, time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitFor() = %v, want context.Canceled", err)
	}
}
