package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadstorage "github.com/launchfolio/launchfolio/internal/launchpad/storage"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
)

// ProposalResult represents one proposal in MCP tool output.
type ProposalResult struct {
	ID              string `json:"id" jsonschema:"proposal identifier"`
	CreatorID       string `json:"creator_id" jsonschema:"user who created the proposal"`
	AssetName       string `json:"asset_name" jsonschema:"name of the underlying asset"`
	AssetType       string `json:"asset_type" jsonschema:"asset category"`
	Category        string `json:"category,omitempty" jsonschema:"free-form asset category"`
	Location        string `json:"location,omitempty" jsonschema:"asset location"`
	Description     string `json:"description,omitempty" jsonschema:"asset description"`
	Status          string `json:"status" jsonschema:"lifecycle status"`
	TargetAmount    int64  `json:"target_amount" jsonschema:"funding goal in cents"`
	RaisedAmount    int64  `json:"raised_amount" jsonschema:"amount raised so far in cents"`
	SharePrice      int64  `json:"share_price" jsonschema:"price of one share in cents"`
	TotalShares     int64  `json:"total_shares" jsonschema:"total shares on offer"`
	MinInvestment   int64  `json:"min_investment" jsonschema:"smallest accepted investment in cents"`
	ExpectedAPYBps  int64  `json:"expected_apy_bps" jsonschema:"projected annual yield in basis points"`
	InvestorCount   int    `json:"investor_count" jsonschema:"number of distinct investors"`
	SharesIssued    bool   `json:"shares_issued" jsonschema:"whether shares have been issued"`
	FundingDeadline string `json:"funding_deadline" jsonschema:"RFC 3339 funding deadline"`
	CreatedAt       string `json:"created_at" jsonschema:"RFC 3339 creation time"`
	UpdatedAt       string `json:"updated_at" jsonschema:"RFC 3339 last update time"`
}

// GetProposalInput identifies the proposal to fetch.
type GetProposalInput struct {
	ProposalID string `json:"proposal_id" jsonschema:"proposal identifier"`
}

// ListProposalsInput filters the proposal listing.
type ListProposalsInput struct {
	Status    string `json:"status,omitempty" jsonschema:"optional status filter (active, funded, completed, failed, cancelled)"`
	CreatorID string `json:"creator_id,omitempty" jsonschema:"optional creator filter"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"page size, defaults to the service cap"`
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque page token from a previous call"`
}

// ListProposalsResult holds one page of proposals.
type ListProposalsResult struct {
	Proposals     []ProposalResult `json:"proposals" jsonschema:"proposals in this page"`
	NextPageToken string           `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// PlatformStatsInput has no parameters.
type PlatformStatsInput struct{}

// PlatformStatsResult aggregates launchpad-wide totals.
type PlatformStatsResult struct {
	TotalProposals     int64 `json:"total_proposals" jsonschema:"proposals ever created"`
	ActiveProposals    int64 `json:"active_proposals" jsonschema:"proposals currently raising"`
	FundedProposals    int64 `json:"funded_proposals" jsonschema:"proposals that met their goal"`
	CompletedProposals int64 `json:"completed_proposals" jsonschema:"proposals with shares issued"`
	TotalRaised        int64 `json:"total_raised" jsonschema:"lifetime amount raised in cents"`
	TotalInvestors     int64 `json:"total_investors" jsonschema:"distinct investors across proposals"`
}

// PortfolioInput identifies the investor to query.
type PortfolioInput struct {
	UserID string `json:"user_id" jsonschema:"investor identifier"`
}

// PortfolioPosition represents one holding in MCP tool output.
type PortfolioPosition struct {
	ProposalID   string  `json:"proposal_id" jsonschema:"proposal identifier"`
	AssetName    string  `json:"asset_name" jsonschema:"name of the underlying asset"`
	Shares       int64   `json:"shares" jsonschema:"shares held"`
	Invested     int64   `json:"invested" jsonschema:"amount invested in cents"`
	OwnershipBps int64   `json:"ownership_bps" jsonschema:"ownership share in basis points"`
	Locked       bool    `json:"locked" jsonschema:"whether the shares are inside a lockup"`
	UnlockAt     *string `json:"unlock_at,omitempty" jsonschema:"RFC 3339 lockup expiry when locked"`
}

// PortfolioSummaryResult aggregates an investor's holdings.
type PortfolioSummaryResult struct {
	TotalInvested      int64               `json:"total_invested" jsonschema:"lifetime invested in cents"`
	TotalDistributions int64               `json:"total_distributions" jsonschema:"lifetime distributions received in cents"`
	TotalRefunded      int64               `json:"total_refunded" jsonschema:"lifetime refunds in cents"`
	NetContribution    int64               `json:"net_contribution" jsonschema:"invested minus refunded in cents"`
	CurrentHoldings    int64               `json:"current_holdings" jsonschema:"amount committed to current positions in cents"`
	ActivePositions    int                 `json:"active_positions" jsonschema:"number of current positions"`
	LockedShares       int64               `json:"locked_shares" jsonschema:"shares inside lockup periods"`
	Positions          []PortfolioPosition `json:"positions" jsonschema:"current holdings"`
}

// PortfolioHistoryInput selects one page of ledger entries.
type PortfolioHistoryInput struct {
	UserID    string `json:"user_id" jsonschema:"investor identifier"`
	Filter    string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over proposal_id, type, amount, shares, occurred_at"`
	OrderBy   string `json:"order_by,omitempty" jsonschema:"optional ordering, e.g. occurred_at desc"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"page size, defaults to the service cap"`
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque page token from a previous call"`
}

// PortfolioTransaction represents one ledger entry in MCP tool output.
type PortfolioTransaction struct {
	ID         string `json:"id" jsonschema:"transaction identifier"`
	ProposalID string `json:"proposal_id" jsonschema:"proposal the entry belongs to"`
	Type       string `json:"type" jsonschema:"entry kind"`
	Amount     int64  `json:"amount" jsonschema:"amount in cents"`
	Shares     int64  `json:"shares" jsonschema:"shares moved by the entry"`
	OccurredAt string `json:"occurred_at" jsonschema:"RFC 3339 time the entry occurred"`
}

// PortfolioHistoryResult holds one page of ledger entries.
type PortfolioHistoryResult struct {
	Transactions  []PortfolioTransaction `json:"transactions" jsonschema:"ledger entries in this page"`
	NextPageToken string                 `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

func getProposalTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_proposal",
		Description: "Fetches one funding proposal by id",
	}
}

func listProposalsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_proposals",
		Description: "Lists funding proposals with optional status and creator filters",
	}
}

func platformStatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "platform_stats",
		Description: "Reports platform-wide funding totals",
	}
}

func portfolioSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "portfolio_summary",
		Description: "Summarizes an investor's holdings and lifetime totals",
	}
}

func portfolioHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "portfolio_history",
		Description: "Lists an investor's transaction ledger entries",
	}
}

func getProposalHandler(reader LaunchpadReader) mcp.ToolHandlerFor[GetProposalInput, ProposalResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetProposalInput) (*mcp.CallToolResult, ProposalResult, error) {
		if strings.TrimSpace(input.ProposalID) == "" {
			return nil, ProposalResult{}, fmt.Errorf("proposal_id is required")
		}
		proposal, err := reader.GetProposal(ctx, input.ProposalID)
		if err != nil {
			return nil, ProposalResult{}, fmt.Errorf("get proposal: %w", err)
		}
		return nil, proposalResult(proposal), nil
	}
}

func listProposalsHandler(reader LaunchpadReader) mcp.ToolHandlerFor[ListProposalsInput, ListProposalsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListProposalsInput) (*mcp.CallToolResult, ListProposalsResult, error) {
		filter := launchpadstorage.ProposalFilter{
			CreatorID: strings.TrimSpace(input.CreatorID),
			PageSize:  input.PageSize,
			PageToken: input.PageToken,
		}
		if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
			status, ok := launchpad.ParseProposalStatus(trimmed)
			if !ok {
				return nil, ListProposalsResult{}, fmt.Errorf("status %q is not recognized", trimmed)
			}
			filter.Status = &status
		}
		page, err := reader.ListProposals(ctx, filter)
		if err != nil {
			return nil, ListProposalsResult{}, fmt.Errorf("list proposals: %w", err)
		}
		result := ListProposalsResult{
			Proposals:     make([]ProposalResult, 0, len(page.Proposals)),
			NextPageToken: page.NextPageToken,
		}
		for _, proposal := range page.Proposals {
			result.Proposals = append(result.Proposals, proposalResult(proposal))
		}
		return nil, result, nil
	}
}

func platformStatsHandler(reader LaunchpadReader) mcp.ToolHandlerFor[PlatformStatsInput, PlatformStatsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ PlatformStatsInput) (*mcp.CallToolResult, PlatformStatsResult, error) {
		stats, err := reader.PlatformStats(ctx)
		if err != nil {
			return nil, PlatformStatsResult{}, fmt.Errorf("platform stats: %w", err)
		}
		return nil, PlatformStatsResult{
			TotalProposals:     stats.TotalProposals,
			ActiveProposals:    stats.ActiveProposals,
			FundedProposals:    stats.FundedProposals,
			CompletedProposals: stats.CompletedProposals,
			TotalRaised:        stats.TotalRaised,
			TotalInvestors:     stats.TotalInvestors,
		}, nil
	}
}

func portfolioSummaryHandler(reader PortfolioReader) mcp.ToolHandlerFor[PortfolioInput, PortfolioSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PortfolioInput) (*mcp.CallToolResult, PortfolioSummaryResult, error) {
		if strings.TrimSpace(input.UserID) == "" {
			return nil, PortfolioSummaryResult{}, fmt.Errorf("user_id is required")
		}
		summary, err := reader.Summary(ctx, input.UserID)
		if err != nil {
			return nil, PortfolioSummaryResult{}, fmt.Errorf("portfolio summary: %w", err)
		}
		result := PortfolioSummaryResult{
			TotalInvested:      summary.TotalInvested,
			TotalDistributions: summary.TotalDistributions,
			TotalRefunded:      summary.TotalRefunded,
			NetContribution:    summary.NetContribution,
			CurrentHoldings:    summary.CurrentHoldings,
			ActivePositions:    summary.ActivePositions,
			LockedShares:       summary.LockedShares,
			Positions:          make([]PortfolioPosition, 0, len(summary.Positions)),
		}
		for _, position := range summary.Positions {
			view := PortfolioPosition{
				ProposalID:   position.ProposalID,
				AssetName:    position.AssetName,
				Shares:       position.Shares,
				Invested:     position.Invested,
				OwnershipBps: position.OwnershipBps,
				Locked:       position.Locked,
			}
			if position.UnlockAt != nil {
				formatted := position.UnlockAt.UTC().Format(time.RFC3339)
				view.UnlockAt = &formatted
			}
			result.Positions = append(result.Positions, view)
		}
		return nil, result, nil
	}
}

func portfolioHistoryHandler(reader PortfolioReader) mcp.ToolHandlerFor[PortfolioHistoryInput, PortfolioHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PortfolioHistoryInput) (*mcp.CallToolResult, PortfolioHistoryResult, error) {
		if strings.TrimSpace(input.UserID) == "" {
			return nil, PortfolioHistoryResult{}, fmt.Errorf("user_id is required")
		}
		page, err := reader.History(ctx, input.UserID, portfolioservice.HistoryRequest{
			Filter:    input.Filter,
			OrderBy:   input.OrderBy,
			PageSize:  input.PageSize,
			PageToken: input.PageToken,
		})
		if err != nil {
			return nil, PortfolioHistoryResult{}, fmt.Errorf("portfolio history: %w", err)
		}
		result := PortfolioHistoryResult{
			Transactions:  make([]PortfolioTransaction, 0, len(page.Transactions)),
			NextPageToken: page.NextPageToken,
		}
		for _, transaction := range page.Transactions {
			result.Transactions = append(result.Transactions, PortfolioTransaction{
				ID:         transaction.ID,
				ProposalID: transaction.ProposalID,
				Type:       string(transaction.Type),
				Amount:     transaction.Amount,
				Shares:     transaction.Shares,
				OccurredAt: transaction.OccurredAt.UTC().Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}

func proposalResult(proposal launchpad.Proposal) ProposalResult {
	return ProposalResult{
		ID:              proposal.ID,
		CreatorID:       proposal.CreatorID,
		AssetName:       proposal.AssetName,
		AssetType:       string(proposal.AssetType),
		Category:        proposal.Category,
		Location:        proposal.Location,
		Description:     proposal.Description,
		Status:          proposal.Status.String(),
		TargetAmount:    proposal.TargetAmount,
		RaisedAmount:    proposal.RaisedAmount,
		SharePrice:      proposal.SharePrice,
		TotalShares:     proposal.TotalShares,
		MinInvestment:   proposal.MinInvestment,
		ExpectedAPYBps:  proposal.ExpectedAPYBps,
		InvestorCount:   proposal.InvestorCount,
		SharesIssued:    proposal.SharesIssued,
		FundingDeadline: proposal.FundingDeadline.UTC().Format(time.RFC3339),
		CreatedAt:       proposal.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       proposal.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
