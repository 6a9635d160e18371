package launchpadapi

import (
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
)

type proposalView struct {
	ID              string `json:"id"`
	CreatorID       string `json:"creator_id"`
	AssetName       string `json:"asset_name"`
	AssetType       string `json:"asset_type"`
	Category        string `json:"category,omitempty"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description,omitempty"`
	TargetAmount    int64  `json:"target_amount"`
	SharePrice      int64  `json:"share_price"`
	TotalShares     int64  `json:"total_shares"`
	MinInvestment   int64  `json:"min_investment"`
	ExpectedAPYBps  int64  `json:"expected_apy_bps"`
	Status          string `json:"status"`
	RaisedAmount    int64  `json:"raised_amount"`
	InvestorCount   int    `json:"investor_count"`
	SharesIssued    bool   `json:"shares_issued"`
	FundingDeadline string `json:"funding_deadline"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func newProposalView(p launchpad.Proposal) proposalView {
	return proposalView{
		ID:              p.ID,
		CreatorID:       p.CreatorID,
		AssetName:       p.AssetName,
		AssetType:       string(p.AssetType),
		Category:        p.Category,
		Location:        p.Location,
		Description:     p.Description,
		TargetAmount:    p.TargetAmount,
		SharePrice:      p.SharePrice,
		TotalShares:     p.TotalShares,
		MinInvestment:   p.MinInvestment,
		ExpectedAPYBps:  p.ExpectedAPYBps,
		Status:          p.Status.String(),
		RaisedAmount:    p.RaisedAmount,
		InvestorCount:   p.InvestorCount,
		SharesIssued:    p.SharesIssued,
		FundingDeadline: p.FundingDeadline.Format(time.RFC3339),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

type proposalDetailView struct {
	proposalView
	FundingProgressBps int64 `json:"funding_progress_bps"`
	DaysRemaining      int   `json:"days_remaining"`
}

func newProposalDetailView(p launchpad.Proposal, now time.Time) proposalDetailView {
	return proposalDetailView{
		proposalView:       newProposalView(p),
		FundingProgressBps: p.FundingProgressBps(),
		DaysRemaining:      p.DaysRemaining(now),
	}
}

type creatorProfileView struct {
	CreatorID          string `json:"creator_id"`
	TotalProposals     int    `json:"total_proposals"`
	ActiveProposals    int    `json:"active_proposals"`
	FundedProposals    int    `json:"funded_proposals"`
	CompletedProposals int    `json:"completed_proposals"`
	FailedProposals    int    `json:"failed_proposals"`
	CancelledProposals int    `json:"cancelled_proposals"`
	SuccessRateBps     int64  `json:"success_rate_bps"`
	Rating             int64  `json:"rating"`
	TotalValueLocked   int64  `json:"total_value_locked"`
}

func newCreatorProfileView(p launchpad.CreatorProfile) creatorProfileView {
	return creatorProfileView{
		CreatorID:          p.CreatorID,
		TotalProposals:     p.TotalProposals,
		ActiveProposals:    p.ActiveProposals,
		FundedProposals:    p.FundedProposals,
		CompletedProposals: p.CompletedProposals,
		FailedProposals:    p.FailedProposals,
		CancelledProposals: p.CancelledProposals,
		SuccessRateBps:     p.SuccessRateBps,
		Rating:             p.Rating,
		TotalValueLocked:   p.TotalValueLocked,
	}
}

type payoutView struct {
	InvestorID string `json:"investor_id"`
	Amount     int64  `json:"amount"`
}

type distributionView struct {
	ID          string       `json:"id"`
	ProposalID  string       `json:"proposal_id"`
	TotalAmount int64        `json:"total_amount"`
	PlatformFee int64        `json:"platform_fee"`
	CreatedAt   string       `json:"created_at"`
	Payouts     []payoutView `json:"payouts"`
}

func newDistributionView(d storage.Distribution, payouts []storage.Payout) distributionView {
	view := distributionView{
		ID:          d.ID,
		ProposalID:  d.ProposalID,
		TotalAmount: d.TotalAmount,
		PlatformFee: d.PlatformFee,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		Payouts:     make([]payoutView, 0, len(payouts)),
	}
	for _, payout := range payouts {
		view.Payouts = append(view.Payouts, payoutView{InvestorID: payout.InvestorID, Amount: payout.Amount})
	}
	return view
}

type proposalPageView struct {
	Proposals     []proposalView `json:"proposals"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

func newProposalPageView(page storage.ProposalPage) proposalPageView {
	view := proposalPageView{
		Proposals:     make([]proposalView, 0, len(page.Proposals)),
		NextPageToken: page.NextPageToken,
	}
	for _, p := range page.Proposals {
		view.Proposals = append(view.Proposals, newProposalView(p))
	}
	return view
}

type investmentView struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposal_id"`
	InvestorID string `json:"investor_id"`
	Amount     int64  `json:"amount"`
	Shares     int64  `json:"shares"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func newInvestmentView(i launchpad.Investment) investmentView {
	return investmentView{
		ID:         i.ID,
		ProposalID: i.ProposalID,
		InvestorID: i.InvestorID,
		Amount:     i.Amount,
		Shares:     i.Shares,
		Status:     i.Status.String(),
		CreatedAt:  i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  i.UpdatedAt.Format(time.RFC3339),
	}
}

type statsView struct {
	TotalProposals     int64 `json:"total_proposals"`
	ActiveProposals    int64 `json:"active_proposals"`
	FundedProposals    int64 `json:"funded_proposals"`
	CompletedProposals int64 `json:"completed_proposals"`
	TotalRaised        int64 `json:"total_raised"`
	TotalInvestors     int64 `json:"total_investors"`
}

func newStatsView(stats storage.PlatformStats) statsView {
	return statsView{
		TotalProposals:     stats.TotalProposals,
		ActiveProposals:    stats.ActiveProposals,
		FundedProposals:    stats.FundedProposals,
		CompletedProposals: stats.CompletedProposals,
		TotalRaised:        stats.TotalRaised,
		TotalInvestors:     stats.TotalInvestors,
	}
}
