package launchpad

import (
	"fmt"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// Lockup holds issued shares until the regulatory holding period elapses.
type Lockup struct {
	ID         string
	ProposalID string
	InvestorID string
	Shares     int64
	// LockedAt is when the proposal funded and the clock started.
	LockedAt time.Time
	// UnlockAt is LockedAt plus the holding period.
	UnlockAt time.Time
	// ReleasedAt is set once the shares become transferable.
	ReleasedAt *time.Time
}

// CreateLockup locks an investor's shares for the standard holding period
// starting at the proposal's funding time.
func CreateLockup(investment Investment, fundedAt time.Time, idGenerator func() (string, error)) (Lockup, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if investment.Shares <= 0 {
		return Lockup{}, apperrors.New(apperrors.CodeInvestmentZeroShares, "lockup requires issued shares")
	}
	lockupID, err := idGenerator()
	if err != nil {
		return Lockup{}, fmt.Errorf("generate lockup id: %w", err)
	}
	lockedAt := fundedAt.UTC()
	return Lockup{
		ID:         lockupID,
		ProposalID: investment.ProposalID,
		InvestorID: investment.InvestorID,
		Shares:     investment.Shares,
		LockedAt:   lockedAt,
		UnlockAt:   lockedAt.AddDate(0, LockupMonths, 0),
	}, nil
}

// Released reports whether the lockup has already been released.
func (l Lockup) Released() bool {
	return l.ReleasedAt != nil
}

// Releasable reports whether the holding period has elapsed.
func (l Lockup) Releasable(now time.Time) bool {
	return !l.Released() && !now.Before(l.UnlockAt)
}

// ReleaseLockup marks the lockup released once the holding period elapsed.
func ReleaseLockup(lockup Lockup, now func() time.Time) (Lockup, error) {
	if now == nil {
		now = time.Now
	}
	releasedAt := now().UTC()
	if lockup.Released() {
		return lockup, nil
	}
	if releasedAt.Before(lockup.UnlockAt) {
		return Lockup{}, apperrors.WithMetadata(
			apperrors.CodeLockupActive,
			"shares are still in the lockup period",
			map[string]string{"UnlockDate": lockup.UnlockAt.Format(time.DateOnly)},
		)
	}
	lockup.ReleasedAt = &releasedAt
	return lockup, nil
}
