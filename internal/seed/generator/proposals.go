package generator

import (
	"context"
	"fmt"

	"github.com/launchfolio/launchfolio/internal/auth/user"
	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/portfolio"
)

// createProposals spreads proposals across creators and walks them
// through the lifecycle: some stay active, some reach their target,
// some issue shares, and some get cancelled with refunds.
func (g *Generator) createProposals(ctx context.Context) error {
	for i := 0; i < g.cfg.Proposals; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.generateProposal(ctx, i); err != nil {
			return fmt.Errorf("generate proposal %d: %w", i+1, err)
		}
	}
	g.logf("Created %d proposals\n", g.cfg.Proposals)
	return nil
}

func (g *Generator) generateProposal(ctx context.Context, index int) error {
	creator := g.creators[index%len(g.creators)]
	assetType := g.namer.assetType(index)
	sharePrice := int64(50_00 + g.rng.Intn(8)*25_00)
	totalShares := int64(100 + g.rng.Intn(400))

	proposal, err := g.launchpad.CreateProposal(ctx, launchpad.CreateProposalInput{
		CreatorID:         creator.ID,
		AssetName:         g.namer.assetName(assetType),
		AssetType:         assetType,
		Category:          string(assetType),
		Location:          g.namer.location(),
		Description:       fmt.Sprintf("Fractional ownership offering managed by %s.", creator.DisplayName),
		TargetAmount:      sharePrice * totalShares,
		SharePrice:        sharePrice,
		MinInvestment:     sharePrice,
		ExpectedAPYBps:    int64(400 + g.rng.Intn(800)),
		FundingPeriodDays: 14 + g.rng.Intn(60),
	})
	if err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}

	// Lifecycle distribution: fresh, partially funded with one refund,
	// funded, completed, cancelled.
	switch index % 5 {
	case 0:
		return nil
	case 1:
		return g.partiallyFund(ctx, proposal, index)
	case 2:
		return g.fullyFund(ctx, proposal, index)
	case 3:
		if err := g.fullyFund(ctx, proposal, index); err != nil {
			return err
		}
		return g.issueShares(ctx, proposal, creator)
	default:
		if err := g.partiallyFund(ctx, proposal, index); err != nil {
			return err
		}
		return g.cancelWithRefunds(ctx, proposal, creator)
	}
}

// partiallyFund commits two investors for under half the target, then
// refunds the second so refund history exists on a live proposal.
func (g *Generator) partiallyFund(ctx context.Context, proposal launchpad.Proposal, index int) error {
	first := g.investors[index%len(g.investors)]
	second := g.investors[(index+1)%len(g.investors)]

	firstShares := proposal.TotalShares / 5
	if firstShares < 1 {
		firstShares = 1
	}
	secondShares := proposal.TotalShares / 10
	if secondShares < 1 {
		secondShares = 1
	}

	if err := g.invest(ctx, proposal.ID, first, firstShares*proposal.SharePrice, firstShares); err != nil {
		return err
	}
	if err := g.invest(ctx, proposal.ID, second, secondShares*proposal.SharePrice, secondShares); err != nil {
		return err
	}

	refunded, err := g.launchpad.Refund(ctx, proposal.ID, second.ID)
	if err != nil {
		return fmt.Errorf("refund investment: %w", err)
	}
	return g.record(ctx, second.ID, proposal.ID, portfolio.TransactionRefund, refunded.Amount, refunded.Shares)
}

// fullyFund splits the whole share count across three investors so the
// proposal transitions to funded.
func (g *Generator) fullyFund(ctx context.Context, proposal launchpad.Proposal, index int) error {
	backers := []user.User{
		g.investors[index%len(g.investors)],
		g.investors[(index+2)%len(g.investors)],
		g.investors[(index+4)%len(g.investors)],
	}
	split := proposal.TotalShares / 3
	if split < 1 {
		split = 1
	}
	shares := []int64{split, split, proposal.TotalShares - 2*split}

	for i, backer := range backers {
		if shares[i] < 1 {
			continue
		}
		if err := g.invest(ctx, proposal.ID, backer, shares[i]*proposal.SharePrice, shares[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) invest(ctx context.Context, proposalID string, investor user.User, amount, shares int64) error {
	if _, _, err := g.launchpad.Invest(ctx, launchpad.CreateInvestmentInput{
		ProposalID: proposalID,
		InvestorID: investor.ID,
		Amount:     amount,
	}); err != nil {
		return fmt.Errorf("invest %s: %w", investor.DisplayName, err)
	}
	return g.record(ctx, investor.ID, proposalID, portfolio.TransactionInvestment, amount, shares)
}

// issueShares completes a funded proposal and writes the issuance
// ledger entries for every active investment.
func (g *Generator) issueShares(ctx context.Context, proposal launchpad.Proposal, creator user.User) error {
	completed, err := g.launchpad.IssueShares(ctx, proposal.ID, creator.ID)
	if err != nil {
		return fmt.Errorf("issue shares: %w", err)
	}
	for _, investor := range g.investors {
		positions, err := g.launchpad.ListInvestorPositions(ctx, investor.ID)
		if err != nil {
			return fmt.Errorf("list positions: %w", err)
		}
		for _, investment := range positions {
			if investment.ProposalID != completed.ID {
				continue
			}
			if err := g.record(ctx, investor.ID, completed.ID, portfolio.TransactionShareIssuance, 0, investment.Shares); err != nil {
				return err
			}
		}
	}
	return g.distributeIncome(ctx, completed, creator)
}

// distributeIncome pays out one quarter's income on a completed proposal
// so dashboards have distribution history.
func (g *Generator) distributeIncome(ctx context.Context, proposal launchpad.Proposal, creator user.User) error {
	income := proposal.TargetAmount / 20
	if income < 1 {
		income = 1
	}
	_, payouts, err := g.launchpad.Distribute(ctx, proposal.ID, creator.ID, income)
	if err != nil {
		return fmt.Errorf("distribute income: %w", err)
	}
	for _, payout := range payouts {
		if err := g.record(ctx, payout.InvestorID, proposal.ID, portfolio.TransactionDistribution, payout.Amount, 0); err != nil {
			return err
		}
	}
	return nil
}

// cancelWithRefunds withdraws a proposal and mirrors the automatic
// refunds into the ledger.
func (g *Generator) cancelWithRefunds(ctx context.Context, proposal launchpad.Proposal, creator user.User) error {
	active := make(map[string]launchpad.Investment)
	for _, investor := range g.investors {
		positions, err := g.launchpad.ListInvestorPositions(ctx, investor.ID)
		if err != nil {
			return fmt.Errorf("list positions: %w", err)
		}
		for _, investment := range positions {
			if investment.ProposalID == proposal.ID && investment.Status == launchpad.InvestmentStatusActive {
				active[investor.ID] = investment
			}
		}
	}

	if _, err := g.launchpad.CancelProposal(ctx, proposal.ID, creator.ID); err != nil {
		return fmt.Errorf("cancel proposal: %w", err)
	}

	for investorID, investment := range active {
		if err := g.record(ctx, investorID, proposal.ID, portfolio.TransactionRefund, investment.Amount, investment.Shares); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) record(ctx context.Context, userID, proposalID string, kind portfolio.TransactionType, amount, shares int64) error {
	if _, err := g.portfolio.Record(ctx, portfolio.RecordTransactionInput{
		UserID:     userID,
		ProposalID: proposalID,
		Type:       kind,
		Amount:     amount,
		Shares:     shares,
	}); err != nil {
		return fmt.Errorf("record %s ledger entry: %w", kind, err)
	}
	return nil
}
