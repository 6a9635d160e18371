package admin

import (
	"time"

	"github.com/launchfolio/launchfolio/internal/auth/user"
	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/compliance"
	launchpadstorage "github.com/launchfolio/launchfolio/internal/launchpad/storage"
	"github.com/launchfolio/launchfolio/internal/support"
	supportstorage "github.com/launchfolio/launchfolio/internal/support/storage"
	"github.com/launchfolio/launchfolio/internal/telemetry"
)

type userView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Tier        string `json:"tier"`
	Admin       bool   `json:"admin"`
	KYCStatus   string `json:"kyc_status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newUserView(account user.User) userView {
	return userView{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		Tier:        user.TierLabel(account.Tier),
		Admin:       account.Admin,
		KYCStatus:   user.KYCStatusLabel(account.KYC),
		CreatedAt:   account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   account.UpdatedAt.Format(time.RFC3339),
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

func newStatsView(stats launchpadstorage.PlatformStats) statsView {
	return statsView{
		TotalProposals:     stats.TotalProposals,
		ActiveProposals:    stats.ActiveProposals,
		FundedProposals:    stats.FundedProposals,
		CompletedProposals: stats.CompletedProposals,
		TotalRaised:        stats.TotalRaised,
		TotalInvestors:     stats.TotalInvestors,
	}
}

type proposalView struct {
	ID            string `json:"id"`
	CreatorID     string `json:"creator_id"`
	AssetName     string `json:"asset_name"`
	Status        string `json:"status"`
	TargetAmount  int64  `json:"target_amount"`
	RaisedAmount  int64  `json:"raised_amount"`
	InvestorCount int    `json:"investor_count"`
	UpdatedAt     string `json:"updated_at"`
}

func newProposalView(p launchpad.Proposal) proposalView {
	return proposalView{
		ID:            p.ID,
		CreatorID:     p.CreatorID,
		AssetName:     p.AssetName,
		Status:        p.Status.String(),
		TargetAmount:  p.TargetAmount,
		RaisedAmount:  p.RaisedAmount,
		InvestorCount: p.InvestorCount,
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

type findingView struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
}

type proposalReportView struct {
	ProposalID        string        `json:"proposal_id"`
	Compliant         bool          `json:"compliant"`
	CapUtilizationBps int64         `json:"cap_utilization_bps"`
	InvestorCount     int           `json:"investor_count"`
	Findings          []findingView `json:"findings"`
	CheckedAt         string        `json:"checked_at"`
}

func newProposalReportView(report compliance.ProposalReport) proposalReportView {
	findings := make([]findingView, 0, len(report.Findings))
	for _, finding := range report.Findings {
		findings = append(findings, findingView{
			Severity: string(finding.Severity),
			Rule:     finding.Rule,
			Message:  finding.Message,
		})
	}
	return proposalReportView{
		ProposalID:        report.ProposalID,
		Compliant:         report.Compliant(),
		CapUtilizationBps: report.CapUtilizationBps,
		InvestorCount:     report.InvestorCount,
		Findings:          findings,
		CheckedAt:         report.CheckedAt.Format(time.RFC3339),
	}
}

type platformReportView struct {
	ProposalsChecked int    `json:"proposals_checked"`
	Violations       int    `json:"violations"`
	Notices          int    `json:"notices"`
	CheckedAt        string `json:"checked_at"`
}

func newPlatformReportView(report compliance.PlatformReport) platformReportView {
	return platformReportView{
		ProposalsChecked: report.ProposalsChecked,
		Violations:       report.Violations,
		Notices:          report.Notices,
		CheckedAt:        report.CheckedAt.Format(time.RFC3339),
	}
}

type ticketView struct {
	ID         string `json:"id"`
	AuthorID   string `json:"author_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	AssigneeID string `json:"assignee_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func newTicketView(ticket support.Ticket) ticketView {
	return ticketView{
		ID:         ticket.ID,
		AuthorID:   ticket.AuthorID,
		Subject:    ticket.Subject,
		Body:       ticket.Body,
		Priority:   ticket.Priority.String(),
		Status:     ticket.Status.String(),
		AssigneeID: ticket.AssigneeID,
		CreatedAt:  ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  ticket.UpdatedAt.Format(time.RFC3339),
	}
}

type ticketPageView struct {
	Tickets       []ticketView `json:"tickets"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

func newTicketPageView(page supportstorage.TicketPage) ticketPageView {
	tickets := make([]ticketView, 0, len(page.Tickets))
	for _, ticket := range page.Tickets {
		tickets = append(tickets, newTicketView(ticket))
	}
	return ticketPageView{Tickets: tickets, NextPageToken: page.NextPageToken}
}

type replyView struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	AuthorID  string `json:"author_id"`
	Operator  bool   `json:"operator"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func newReplyView(reply support.Reply) replyView {
	return replyView{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		AuthorID:  reply.AuthorID,
		Operator:  reply.Operator,
		Body:      reply.Body,
		CreatedAt: reply.CreatedAt.Format(time.RFC3339),
	}
}

type ticketThreadView struct {
	Ticket  ticketView  `json:"ticket"`
	Replies []replyView `json:"replies"`
}

func newTicketThreadView(ticket support.Ticket, replies []support.Reply) ticketThreadView {
	views := make([]replyView, 0, len(replies))
	for _, reply := range replies {
		views = append(views, newReplyView(reply))
	}
	return ticketThreadView{Ticket: newTicketView(ticket), Replies: views}
}

type telemetryEventView struct {
	Timestamp string            `json:"timestamp"`
	Severity  string            `json:"severity"`
	Service   string            `json:"service"`
	Kind      string            `json:"kind"`
	Subject   string            `json:"subject,omitempty"`
	Message   string            `json:"message,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func newTelemetryEventView(evt telemetry.Event) telemetryEventView {
	return telemetryEventView{
		Timestamp: evt.Timestamp.Format(time.RFC3339),
		Severity:  string(evt.Severity),
		Service:   evt.Service,
		Kind:      evt.Kind,
		Subject:   evt.Subject,
		Message:   evt.Message,
		Metadata:  evt.Metadata,
	}
}
