package compliance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
)

func testClock() time.Time {
	return time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
}

func newTestChecker(t *testing.T) (*Checker, *launchpadsqlite.Store) {
	t.Helper()
	store, err := launchpadsqlite.Open(filepath.Join(t.TempDir(), "launchpad.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return NewChecker(store, WithClock(testClock)), store
}

func seedProposal(t *testing.T, store *launchpadsqlite.Store, proposal launchpad.Proposal) {
	t.Helper()
	if err := store.CreateProposal(context.Background(), proposal); err != nil {
		t.Fatalf("CreateProposal returned error: %v", err)
	}
}

func baseProposal(id string) launchpad.Proposal {
	return launchpad.Proposal{
		ID:              id,
		CreatorID:       "creator-1",
		AssetName:       "Dockside Lofts",
		AssetType:       launchpad.AssetTypeRealEstate,
		TargetAmount:    10_000_00,
		SharePrice:      100_00,
		TotalShares:     100,
		MinInvestment:   100_00,
		Status:          launchpad.ProposalStatusActive,
		FundingDeadline: testClock().AddDate(0, 0, 30),
		CreatedAt:       testClock(),
		UpdatedAt:       testClock(),
	}
}

func TestCheckProposalClean(t *testing.T) {
	checker, store := newTestChecker(t)
	seedProposal(t, store, baseProposal("prop-1"))

	report, err := checker.CheckProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("CheckProposal returned error: %v", err)
	}
	if !report.Compliant() {
		t.Errorf("report = %+v, want compliant", report)
	}
	if len(report.Findings) != 0 {
		t.Errorf("Findings = %+v, want none", report.Findings)
	}
}

func TestCheckProposalOfferingLimit(t *testing.T) {
	checker, store := newTestChecker(t)
	proposal := baseProposal("prop-1")
	proposal.TargetAmount = MaxOfferingAmount + 100_00
	proposal.SharePrice = 100_00
	proposal.TotalShares = proposal.TargetAmount / proposal.SharePrice
	seedProposal(t, store, proposal)

	report, err := checker.CheckProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("CheckProposal returned error: %v", err)
	}
	if report.Compliant() {
		t.Fatalf("report = %+v, want offering limit violation", report)
	}
	if report.Findings[0].Rule != "offering_limit" {
		t.Errorf("Rule = %q, want offering_limit", report.Findings[0].Rule)
	}
}

func TestCheckProposalExpiredActive(t *testing.T) {
	checker, store := newTestChecker(t)
	proposal := baseProposal("prop-1")
	proposal.FundingDeadline = testClock().AddDate(0, 0, -1)
	seedProposal(t, store, proposal)

	report, err := checker.CheckProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("CheckProposal returned error: %v", err)
	}
	if report.Compliant() {
		t.Fatalf("report = %+v, want funding deadline violation", report)
	}
}

func TestCheckProposalConcentrationNotice(t *testing.T) {
	checker, store := newTestChecker(t)
	proposal := baseProposal("prop-1")
	proposal.InvestorCount = 1
	seedProposal(t, store, proposal)
	investment := launchpad.Investment{
		ID:         "inv-1",
		ProposalID: "prop-1",
		InvestorID: "user-1",
		Amount:     5_000_00,
		Shares:     50,
		Status:     launchpad.InvestmentStatusActive,
		CreatedAt:  testClock(),
		UpdatedAt:  testClock(),
	}
	if err := store.CreateInvestment(context.Background(), investment); err != nil {
		t.Fatalf("CreateInvestment returned error: %v", err)
	}

	report, err := checker.CheckProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("CheckProposal returned error: %v", err)
	}
	if !report.Compliant() {
		t.Errorf("report = %+v, want compliant (notices only)", report)
	}
	found := false
	for _, finding := range report.Findings {
		if finding.Rule == "investor_concentration" && finding.Severity == SeverityNotice {
			found = true
		}
	}
	if !found {
		t.Errorf("Findings = %+v, want an investor_concentration notice", report.Findings)
	}
}

func TestCheckPlatform(t *testing.T) {
	checker, store := newTestChecker(t)
	seedProposal(t, store, baseProposal("prop-1"))
	expired := baseProposal("prop-2")
	expired.FundingDeadline = testClock().AddDate(0, 0, -1)
	seedProposal(t, store, expired)

	report, err := checker.CheckPlatform(context.Background())
	if err != nil {
		t.Fatalf("CheckPlatform returned error: %v", err)
	}
	if report.ProposalsChecked != 2 {
		t.Errorf("ProposalsChecked = %d, want 2", report.ProposalsChecked)
	}
	if report.Violations != 1 {
		t.Errorf("Violations = %d, want 1", report.Violations)
	}
}
