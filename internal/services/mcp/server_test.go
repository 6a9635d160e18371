package mcp

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadstorage "github.com/launchfolio/launchfolio/internal/launchpad/storage"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	portfoliostorage "github.com/launchfolio/launchfolio/internal/portfolio/storage"
)

var fixedTime = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

type fakeLaunchpad struct {
	proposal   launchpad.Proposal
	page       launchpadstorage.ProposalPage
	pageFilter launchpadstorage.ProposalFilter
	stats      launchpadstorage.PlatformStats
	err        error
}

func (f *fakeLaunchpad) GetProposal(_ context.Context, proposalID string) (launchpad.Proposal, error) {
	if f.err != nil {
		return launchpad.Proposal{}, f.err
	}
	if proposalID != f.proposal.ID {
		return launchpad.Proposal{}, fmt.Errorf("proposal %q not found", proposalID)
	}
	return f.proposal, nil
}

func (f *fakeLaunchpad) ListProposals(_ context.Context, filter launchpadstorage.ProposalFilter) (launchpadstorage.ProposalPage, error) {
	if f.err != nil {
		return launchpadstorage.ProposalPage{}, f.err
	}
	f.pageFilter = filter
	return f.page, nil
}

func (f *fakeLaunchpad) PlatformStats(_ context.Context) (launchpadstorage.PlatformStats, error) {
	if f.err != nil {
		return launchpadstorage.PlatformStats{}, f.err
	}
	return f.stats, nil
}

type fakePortfolio struct {
	summary portfolio.Summary
	page    portfoliostorage.TransactionPage
	request portfolioservice.HistoryRequest
	err     error
}

func (f *fakePortfolio) Summary(_ context.Context, _ string) (portfolio.Summary, error) {
	if f.err != nil {
		return portfolio.Summary{}, f.err
	}
	return f.summary, nil
}

func (f *fakePortfolio) History(_ context.Context, _ string, req portfolioservice.HistoryRequest) (portfoliostorage.TransactionPage, error) {
	if f.err != nil {
		return portfoliostorage.TransactionPage{}, f.err
	}
	f.request = req
	return f.page, nil
}

func testProposal(id string) launchpad.Proposal {
	return launchpad.Proposal{
		ID:              id,
		CreatorID:       "user-1",
		AssetName:       "Dockside Lofts",
		AssetType:       launchpad.AssetTypeRealEstate,
		Status:          launchpad.ProposalStatusActive,
		TargetAmount:    50_000_00,
		RaisedAmount:    12_500_00,
		SharePrice:      100_00,
		TotalShares:     500,
		MinInvestment:   100_00,
		InvestorCount:   3,
		FundingDeadline: fixedTime.AddDate(0, 1, 0),
		CreatedAt:       fixedTime,
		UpdatedAt:       fixedTime,
	}
}

func TestGetProposalHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reader := &fakeLaunchpad{proposal: testProposal("prop-1")}
		handler := getProposalHandler(reader)

		_, result, err := handler(context.Background(), nil, GetProposalInput{ProposalID: "prop-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ID != "prop-1" {
			t.Errorf("expected id prop-1, got %q", result.ID)
		}
		if result.Status != "active" {
			t.Errorf("expected status active, got %q", result.Status)
		}
		if result.AssetType != "real_estate" {
			t.Errorf("expected asset type real_estate, got %q", result.AssetType)
		}
		if result.CreatedAt != "2026-05-01T12:00:00Z" {
			t.Errorf("unexpected created_at %q", result.CreatedAt)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		handler := getProposalHandler(&fakeLaunchpad{})
		_, _, err := handler(context.Background(), nil, GetProposalInput{})
		if err == nil {
			t.Fatal("expected error for empty proposal_id")
		}
	})

	t.Run("read error", func(t *testing.T) {
		handler := getProposalHandler(&fakeLaunchpad{err: fmt.Errorf("store offline")})
		_, _, err := handler(context.Background(), nil, GetProposalInput{ProposalID: "prop-1"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestListProposalsHandler(t *testing.T) {
	t.Run("maps filter and page", func(t *testing.T) {
		reader := &fakeLaunchpad{
			page: launchpadstorage.ProposalPage{
				Proposals:     []launchpad.Proposal{testProposal("prop-1"), testProposal("prop-2")},
				NextPageToken: "prop-2",
			},
		}
		handler := listProposalsHandler(reader)

		_, result, err := handler(context.Background(), nil, ListProposalsInput{
			Status:   "active",
			PageSize: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Proposals) != 2 {
			t.Fatalf("expected 2 proposals, got %d", len(result.Proposals))
		}
		if result.NextPageToken != "prop-2" {
			t.Errorf("expected next page token prop-2, got %q", result.NextPageToken)
		}
		if reader.pageFilter.Status == nil || *reader.pageFilter.Status != launchpad.ProposalStatusActive {
			t.Error("expected active status filter to reach the reader")
		}
		if reader.pageFilter.PageSize != 2 {
			t.Errorf("expected page size 2, got %d", reader.pageFilter.PageSize)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		handler := listProposalsHandler(&fakeLaunchpad{})
		_, _, err := handler(context.Background(), nil, ListProposalsInput{Status: "vaporware"})
		if err == nil {
			t.Fatal("expected error for unknown status")
		}
	})

	t.Run("schema hint matches the parser", func(t *testing.T) {
		field, ok := reflect.TypeOf(ListProposalsInput{}).FieldByName("Status")
		if !ok {
			t.Fatal("ListProposalsInput has no Status field")
		}
		hint := field.Tag.Get("jsonschema")
		start := strings.Index(hint, "(")
		end := strings.Index(hint, ")")
		if start < 0 || end < start {
			t.Fatalf("status hint %q does not enumerate values", hint)
		}
		for _, name := range strings.Split(hint[start+1:end], ",") {
			name = strings.TrimSpace(name)
			if _, ok := launchpad.ParseProposalStatus(name); !ok {
				t.Errorf("hinted status %q is not accepted by the parser", name)
			}
		}
	})
}

func TestPlatformStatsHandler(t *testing.T) {
	reader := &fakeLaunchpad{
		stats: launchpadstorage.PlatformStats{
			TotalProposals:  12,
			ActiveProposals: 4,
			TotalRaised:     1_000_000_00,
			TotalInvestors:  85,
		},
	}
	handler := platformStatsHandler(reader)

	_, result, err := handler(context.Background(), nil, PlatformStatsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalProposals != 12 {
		t.Errorf("expected 12 total proposals, got %d", result.TotalProposals)
	}
	if result.TotalRaised != 1_000_000_00 {
		t.Errorf("expected total raised 100000000, got %d", result.TotalRaised)
	}
}

func TestPortfolioSummaryHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		unlockAt := fixedTime.AddDate(1, 0, 0)
		reader := &fakePortfolio{
			summary: portfolio.Summary{
				TotalInvested:   5_000_00,
				NetContribution: 4_000_00,
				ActivePositions: 1,
				LockedShares:    40,
				Positions: []portfolio.Position{{
					ProposalID:   "prop-1",
					AssetName:    "Dockside Lofts",
					Shares:       40,
					Invested:     4_000_00,
					OwnershipBps: 800,
					Locked:       true,
					UnlockAt:     &unlockAt,
				}},
			},
		}
		handler := portfolioSummaryHandler(reader)

		_, result, err := handler(context.Background(), nil, PortfolioInput{UserID: "user-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalInvested != 5_000_00 {
			t.Errorf("expected total invested 500000, got %d", result.TotalInvested)
		}
		if len(result.Positions) != 1 {
			t.Fatalf("expected one position, got %d", len(result.Positions))
		}
		position := result.Positions[0]
		if !position.Locked {
			t.Error("expected position to be locked")
		}
		if position.UnlockAt == nil || *position.UnlockAt != "2027-05-01T12:00:00Z" {
			t.Errorf("unexpected unlock_at %v", position.UnlockAt)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		handler := portfolioSummaryHandler(&fakePortfolio{})
		_, _, err := handler(context.Background(), nil, PortfolioInput{})
		if err == nil {
			t.Fatal("expected error for empty user_id")
		}
	})
}

func TestPortfolioHistoryHandler(t *testing.T) {
	reader := &fakePortfolio{
		page: portfoliostorage.TransactionPage{
			Transactions: []portfolio.Transaction{{
				ID:         "txn-1",
				UserID:     "user-1",
				ProposalID: "prop-1",
				Type:       portfolio.TransactionInvestment,
				Amount:     1_000_00,
				Shares:     10,
				OccurredAt: fixedTime,
			}},
			NextPageToken: "txn-1",
		},
	}
	handler := portfolioHistoryHandler(reader)

	_, result, err := handler(context.Background(), nil, PortfolioHistoryInput{
		UserID:  "user-1",
		OrderBy: "occurred_at desc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(result.Transactions))
	}
	if result.Transactions[0].Type != "investment" {
		t.Errorf("expected type investment, got %q", result.Transactions[0].Type)
	}
	if result.Transactions[0].OccurredAt != "2026-05-01T12:00:00Z" {
		t.Errorf("unexpected occurred_at %q", result.Transactions[0].OccurredAt)
	}
	if reader.request.OrderBy != "occurred_at desc" {
		t.Errorf("expected order_by to reach the reader, got %q", reader.request.OrderBy)
	}
}

func TestServeWithTransportRejectsUnconfiguredServer(t *testing.T) {
	var nilServer *Server
	if err := nilServer.serveWithTransport(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil server")
	}

	emptyServer := &Server{}
	if err := emptyServer.serveWithTransport(context.Background(), nil); err == nil {
		t.Fatal("expected error for unconfigured server")
	}
}
