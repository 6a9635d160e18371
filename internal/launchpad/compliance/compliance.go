// Package compliance produces regulatory reports over launchpad offerings.
// The checks mirror a Reg CF style regime: a per-offering raise limit, a
// per-investor concentration ceiling, and the platform investor cap.
package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
)

const (
	// MaxOfferingAmount is the per-offering raise limit in cents.
	MaxOfferingAmount int64 = 5_000_000_00
	// MaxInvestorConcentrationBps caps a single investor's share of one
	// offering in basis points.
	MaxInvestorConcentrationBps int64 = 2_500
)

// Severity grades a compliance finding.
type Severity string

const (
	SeverityNotice    Severity = "notice"
	SeverityViolation Severity = "violation"
)

// Finding is one compliance observation about an offering.
type Finding struct {
	Severity Severity
	Rule     string
	Message  string
}

// ProposalReport is the compliance status of one offering.
type ProposalReport struct {
	ProposalID string
	// CapUtilizationBps is investor count relative to the cap in basis points.
	CapUtilizationBps int64
	InvestorCount     int
	Findings          []Finding
	CheckedAt         time.Time
}

// Compliant reports whether the offering has no violations.
func (r ProposalReport) Compliant() bool {
	for _, finding := range r.Findings {
		if finding.Severity == SeverityViolation {
			return false
		}
	}
	return true
}

// PlatformReport aggregates compliance across all offerings.
type PlatformReport struct {
	ProposalsChecked int
	Violations       int
	Notices          int
	CheckedAt        time.Time
}

// Checker runs compliance checks over launchpad storage.
type Checker struct {
	store storage.Store
	clock func() time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock overrides the checker clock.
func WithClock(clock func() time.Time) Option {
	return func(c *Checker) { c.clock = clock }
}

// NewChecker creates a compliance checker.
func NewChecker(store storage.Store, opts ...Option) *Checker {
	c := &Checker{store: store, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckProposal produces the compliance report for one offering.
func (c *Checker) CheckProposal(ctx context.Context, proposalID string) (ProposalReport, error) {
	proposal, err := c.store.GetProposal(ctx, proposalID)
	if err != nil {
		return ProposalReport{}, fmt.Errorf("get proposal: %w", err)
	}
	investments, err := c.store.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return ProposalReport{}, fmt.Errorf("list investments: %w", err)
	}
	return buildProposalReport(proposal, investments, c.clock().UTC()), nil
}

func buildProposalReport(proposal launchpad.Proposal, investments []launchpad.Investment, now time.Time) ProposalReport {
	report := ProposalReport{
		ProposalID:    proposal.ID,
		InvestorCount: proposal.InvestorCount,
		CheckedAt:     now,
	}
	report.CapUtilizationBps = int64(proposal.InvestorCount) * 10_000 / launchpad.MaxInvestorsPerProposal

	if proposal.TargetAmount > MaxOfferingAmount {
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityViolation,
			Rule:     "offering_limit",
			Message:  fmt.Sprintf("target amount %d exceeds the offering limit %d", proposal.TargetAmount, MaxOfferingAmount),
		})
	}
	if proposal.InvestorCount > launchpad.MaxInvestorsPerProposal {
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityViolation,
			Rule:     "investor_cap",
			Message:  fmt.Sprintf("investor count %d exceeds the cap %d", proposal.InvestorCount, launchpad.MaxInvestorsPerProposal),
		})
	} else if report.CapUtilizationBps >= 9_000 {
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityNotice,
			Rule:     "investor_cap",
			Message:  "offering is above 90% of the investor cap",
		})
	}

	for _, investment := range investments {
		if investment.Status == launchpad.InvestmentStatusRefunded {
			continue
		}
		if proposal.TotalShares <= 0 {
			continue
		}
		concentration := investment.Shares * 10_000 / proposal.TotalShares
		if concentration > MaxInvestorConcentrationBps {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityNotice,
				Rule:     "investor_concentration",
				Message:  fmt.Sprintf("investor %s holds %d bps of the offering", investment.InvestorID, concentration),
			})
		}
	}

	if proposal.Status == launchpad.ProposalStatusActive && proposal.DeadlinePassed(now) {
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityViolation,
			Rule:     "funding_deadline",
			Message:  "offering is active past its funding deadline",
		})
	}
	return report
}

// CheckPlatform aggregates compliance across every offering.
func (c *Checker) CheckPlatform(ctx context.Context) (PlatformReport, error) {
	now := c.clock().UTC()
	report := PlatformReport{CheckedAt: now}

	pageToken := ""
	for {
		page, err := c.store.ListProposals(ctx, storage.ProposalFilter{PageSize: 100, PageToken: pageToken})
		if err != nil {
			return PlatformReport{}, fmt.Errorf("list proposals: %w", err)
		}
		for _, proposal := range page.Proposals {
			investments, err := c.store.ListInvestmentsByProposal(ctx, proposal.ID)
			if err != nil {
				return PlatformReport{}, fmt.Errorf("list investments: %w", err)
			}
			proposalReport := buildProposalReport(proposal, investments, now)
			report.ProposalsChecked++
			for _, finding := range proposalReport.Findings {
				switch finding.Severity {
				case SeverityViolation:
					report.Violations++
				case SeverityNotice:
					report.Notices++
				}
			}
		}
		if page.NextPageToken == "" {
			return report, nil
		}
		pageToken = page.NextPageToken
	}
}
