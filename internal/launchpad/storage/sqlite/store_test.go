package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "launchpad.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func testProposal(id, creatorID string, status launchpad.ProposalStatus) launchpad.Proposal {
	createdAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return launchpad.Proposal{
		ID:              id,
		CreatorID:       creatorID,
		AssetName:       "Harbor Flats",
		AssetType:       launchpad.AssetTypeRealEstate,
		Category:        "residential",
		Location:        "Lisbon, PT",
		TargetAmount:    1_000_00,
		SharePrice:      10_00,
		TotalShares:     100,
		MinInvestment:   10_00,
		ExpectedAPYBps:  650,
		Status:          status,
		FundingDeadline: createdAt.AddDate(0, 0, 30),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestProposalRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := testProposal("prop-1", "creator-1", launchpad.ProposalStatusActive)
	if err := store.CreateProposal(ctx, want); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}
	got, err := store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if got.AssetName != want.AssetName || got.TargetAmount != want.TargetAmount || got.Status != want.Status {
		t.Fatalf("GetProposal() = %+v, want %+v", got, want)
	}
	if !got.FundingDeadline.Equal(want.FundingDeadline) {
		t.Fatalf("FundingDeadline = %v, want %v", got.FundingDeadline, want.FundingDeadline)
	}
	if got.FundedAt != nil {
		t.Fatalf("FundedAt = %v, want nil", got.FundedAt)
	}

	if _, err := store.GetProposal(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetProposal(missing) = %v, want ErrNotFound", err)
	}
}

func TestUpdateProposalPersistsLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	proposal := testProposal("prop-1", "creator-1", launchpad.ProposalStatusActive)
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	fundedAt := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	proposal.Status = launchpad.ProposalStatusFunded
	proposal.RaisedAmount = 1_000_00
	proposal.InvestorCount = 4
	proposal.FundedAt = &fundedAt
	if err := store.UpdateProposal(ctx, proposal); err != nil {
		t.Fatalf("UpdateProposal() error = %v", err)
	}

	got, err := store.GetProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetProposal() error = %v", err)
	}
	if got.Status != launchpad.ProposalStatusFunded || got.RaisedAmount != 1_000_00 || got.InvestorCount != 4 {
		t.Fatalf("GetProposal() = %+v, want funded with progress", got)
	}
	if got.FundedAt == nil || !got.FundedAt.Equal(fundedAt) {
		t.Fatalf("FundedAt = %v, want %v", got.FundedAt, fundedAt)
	}

	missing := testProposal("ghost", "creator-1", launchpad.ProposalStatusActive)
	if err := store.UpdateProposal(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("UpdateProposal(missing) = %v, want ErrNotFound", err)
	}
}

func TestListProposalsFilterAndPaging(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, p := range []launchpad.Proposal{
		testProposal("prop-a", "creator-1", launchpad.ProposalStatusActive),
		testProposal("prop-b", "creator-1", launchpad.ProposalStatusFunded),
		testProposal("prop-c", "creator-2", launchpad.ProposalStatusActive),
	} {
		if err := store.CreateProposal(ctx, p); err != nil {
			t.Fatalf("CreateProposal(%s) error = %v", p.ID, err)
		}
	}

	active := launchpad.ProposalStatusActive
	page, err := store.ListProposals(ctx, storage.ProposalFilter{Status: &active, PageSize: 10})
	if err != nil {
		t.Fatalf("ListProposals() error = %v", err)
	}
	if len(page.Proposals) != 2 {
		t.Fatalf("active proposals = %d, want 2", len(page.Proposals))
	}

	page, err = store.ListProposals(ctx, storage.ProposalFilter{CreatorID: "creator-1", PageSize: 1})
	if err != nil {
		t.Fatalf("ListProposals() error = %v", err)
	}
	if len(page.Proposals) != 1 || page.Proposals[0].ID != "prop-a" {
		t.Fatalf("page = %+v, want prop-a", page.Proposals)
	}
	if page.NextPageToken != "prop-a" {
		t.Fatalf("NextPageToken = %q, want prop-a", page.NextPageToken)
	}

	page, err = store.ListProposals(ctx, storage.ProposalFilter{CreatorID: "creator-1", PageSize: 1, PageToken: page.NextPageToken})
	if err != nil {
		t.Fatalf("ListProposals() second page error = %v", err)
	}
	if len(page.Proposals) != 1 || page.Proposals[0].ID != "prop-b" {
		t.Fatalf("second page = %+v, want prop-b", page.Proposals)
	}
	if page.NextPageToken != "" {
		t.Fatalf("NextPageToken = %q, want empty on last page", page.NextPageToken)
	}
}

func TestCountActiveProposalsByCreator(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, p := range []launchpad.Proposal{
		testProposal("prop-a", "creator-1", launchpad.ProposalStatusActive),
		testProposal("prop-b", "creator-1", launchpad.ProposalStatusFailed),
		testProposal("prop-c", "creator-2", launchpad.ProposalStatusActive),
	} {
		if err := store.CreateProposal(ctx, p); err != nil {
			t.Fatalf("CreateProposal(%s) error = %v", p.ID, err)
		}
	}
	count, err := store.CountActiveProposalsByCreator(ctx, "creator-1")
	if err != nil {
		t.Fatalf("CountActiveProposalsByCreator() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestListExpiredActiveProposals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	fresh := testProposal("prop-fresh", "creator-1", launchpad.ProposalStatusActive)
	expired := testProposal("prop-old", "creator-1", launchpad.ProposalStatusActive)
	expired.FundingDeadline = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	failed := testProposal("prop-failed", "creator-1", launchpad.ProposalStatusFailed)
	failed.FundingDeadline = expired.FundingDeadline
	for _, p := range []launchpad.Proposal{fresh, expired, failed} {
		if err := store.CreateProposal(ctx, p); err != nil {
			t.Fatalf("CreateProposal(%s) error = %v", p.ID, err)
		}
	}

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	got, err := store.ListExpiredActiveProposals(ctx, now)
	if err != nil {
		t.Fatalf("ListExpiredActiveProposals() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "prop-old" {
		t.Fatalf("expired = %+v, want only prop-old", got)
	}
}

func TestInvestmentRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	proposal := testProposal("prop-1", "creator-1", launchpad.ProposalStatusActive)
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	createdAt := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	investment := launchpad.Investment{
		ID:         "invest-1",
		ProposalID: "prop-1",
		InvestorID: "inv-1",
		Amount:     100_00,
		Shares:     10,
		Status:     launchpad.InvestmentStatusActive,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := store.CreateInvestment(ctx, investment); err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}

	got, err := store.GetInvestment(ctx, "prop-1", "inv-1")
	if err != nil {
		t.Fatalf("GetInvestment() error = %v", err)
	}
	if got.Amount != 100_00 || got.Shares != 10 || got.Status != launchpad.InvestmentStatusActive {
		t.Fatalf("GetInvestment() = %+v", got)
	}

	got.Amount = 200_00
	got.Shares = 20
	if err := store.UpdateInvestment(ctx, got); err != nil {
		t.Fatalf("UpdateInvestment() error = %v", err)
	}
	byProposal, err := store.ListInvestmentsByProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("ListInvestmentsByProposal() error = %v", err)
	}
	if len(byProposal) != 1 || byProposal[0].Amount != 200_00 {
		t.Fatalf("byProposal = %+v", byProposal)
	}
	byInvestor, err := store.ListInvestmentsByInvestor(ctx, "inv-1")
	if err != nil {
		t.Fatalf("ListInvestmentsByInvestor() error = %v", err)
	}
	if len(byInvestor) != 1 {
		t.Fatalf("byInvestor = %+v", byInvestor)
	}

	if _, err := store.GetInvestment(ctx, "prop-1", "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetInvestment(ghost) = %v, want ErrNotFound", err)
	}
}

func TestLockupLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	proposal := testProposal("prop-1", "creator-1", launchpad.ProposalStatusFunded)
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	lockedAt := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lockup := launchpad.Lockup{
		ID:         "lock-1",
		ProposalID: "prop-1",
		InvestorID: "inv-1",
		Shares:     10,
		LockedAt:   lockedAt,
		UnlockAt:   lockedAt.AddDate(0, launchpad.LockupMonths, 0),
	}
	if err := store.CreateLockup(ctx, lockup); err != nil {
		t.Fatalf("CreateLockup() error = %v", err)
	}

	during := lockedAt.AddDate(0, 6, 0)
	releasable, err := store.ListReleasableLockups(ctx, during)
	if err != nil {
		t.Fatalf("ListReleasableLockups() error = %v", err)
	}
	if len(releasable) != 0 {
		t.Fatalf("releasable = %d during lockup, want 0", len(releasable))
	}

	after := lockup.UnlockAt.AddDate(0, 0, 1)
	releasable, err = store.ListReleasableLockups(ctx, after)
	if err != nil {
		t.Fatalf("ListReleasableLockups() error = %v", err)
	}
	if len(releasable) != 1 {
		t.Fatalf("releasable = %d after lockup, want 1", len(releasable))
	}

	releasedAt := after
	lockup.ReleasedAt = &releasedAt
	if err := store.UpdateLockup(ctx, lockup); err != nil {
		t.Fatalf("UpdateLockup() error = %v", err)
	}
	releasable, err = store.ListReleasableLockups(ctx, after.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListReleasableLockups() error = %v", err)
	}
	if len(releasable) != 0 {
		t.Fatalf("releasable = %d after release, want 0", len(releasable))
	}

	byInvestor, err := store.ListLockupsByInvestor(ctx, "inv-1")
	if err != nil {
		t.Fatalf("ListLockupsByInvestor() error = %v", err)
	}
	if len(byInvestor) != 1 || !byInvestor[0].Released() {
		t.Fatalf("byInvestor = %+v, want one released lockup", byInvestor)
	}
}

func TestDistributionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	proposal := testProposal("prop-1", "creator-1", launchpad.ProposalStatusCompleted)
	if err := store.CreateProposal(ctx, proposal); err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}

	distribution := storage.Distribution{
		ID:          "dist-1",
		ProposalID:  "prop-1",
		TotalAmount: 100_00,
		PlatformFee: 2_50,
		CreatedAt:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	payouts := []storage.Payout{
		{DistributionID: "dist-1", InvestorID: "inv-1", Amount: 73_12},
		{DistributionID: "dist-1", InvestorID: "inv-2", Amount: 24_37},
	}
	if err := store.CreateDistribution(ctx, distribution, payouts); err != nil {
		t.Fatalf("CreateDistribution() error = %v", err)
	}

	got, err := store.ListDistributionsByProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("ListDistributionsByProposal() error = %v", err)
	}
	if len(got) != 1 || got[0].PlatformFee != 2_50 {
		t.Fatalf("distributions = %+v", got)
	}

	investorPayouts, err := store.ListPayoutsByInvestor(ctx, "inv-2")
	if err != nil {
		t.Fatalf("ListPayoutsByInvestor() error = %v", err)
	}
	if len(investorPayouts) != 1 || investorPayouts[0].Amount != 24_37 {
		t.Fatalf("payouts = %+v", investorPayouts)
	}
}
