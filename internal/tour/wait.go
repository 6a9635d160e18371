package tour

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by WaitFor when the predicate never reported
// true within the timeout.
var ErrWaitTimeout = errors.New("tour: wait timed out")

// WaitFor polls probe at the given interval until it reports true, the
// timeout elapses, or the context is canceled. The probe is checked once
// immediately before the first tick. Probe errors abort the wait.
func WaitFor(ctx context.Context, interval, timeout time.Duration, probe func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := probe(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrWaitTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
