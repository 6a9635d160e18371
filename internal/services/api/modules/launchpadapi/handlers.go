package launchpadapi

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

// Ledger mirrors distribution payouts into the transaction ledger.
type Ledger interface {
	Record(ctx context.Context, input portfolio.RecordTransactionInput) (portfolio.Transaction, error)
}

type handlers struct {
	service *launchpadservice.Service
	ledger  Ledger
	now     func() time.Time
}

type createProposalRequest struct {
	AssetName         string `json:"asset_name"`
	AssetType         string `json:"asset_type"`
	Category          string `json:"category"`
	Location          string `json:"location"`
	Description       string `json:"description"`
	TargetAmount      int64  `json:"target_amount"`
	SharePrice        int64  `json:"share_price"`
	MinInvestment     int64  `json:"min_investment"`
	ExpectedAPYBps    int64  `json:"expected_apy_bps"`
	FundingPeriodDays int    `json:"funding_period_days"`
}

func (h handlers) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req createProposalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	proposal, err := h.service.CreateProposal(r.Context(), launchpad.CreateProposalInput{
		CreatorID:         caller.UserID,
		AssetName:         req.AssetName,
		AssetType:         launchpad.AssetType(req.AssetType),
		Category:          req.Category,
		Location:          req.Location,
		Description:       req.Description,
		TargetAmount:      req.TargetAmount,
		SharePrice:        req.SharePrice,
		MinInvestment:     req.MinInvestment,
		ExpectedAPYBps:    req.ExpectedAPYBps,
		FundingPeriodDays: req.FundingPeriodDays,
	})
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newProposalView(proposal))
}

func (h handlers) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := h.service.GetProposal(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalDetailView(proposal, h.now()))
}

func (h handlers) handleCreatorProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CreatorProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newCreatorProfileView(profile))
}

func (h handlers) handleListProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.ProposalFilter{
		CreatorID: query.Get("creator_id"),
		PageToken: query.Get("page_token"),
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := launchpad.ParseProposalStatus(raw)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeFilterInvalid, "unknown proposal status"), httpx.Locale(r))
			return
		}
		filter.Status = &status
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "page_size must be an integer"), httpx.Locale(r))
			return
		}
		filter.PageSize = size
	}
	page, err := h.service.ListProposals(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalPageView(page))
}

type updateProposalRequest struct {
	AssetName   *string `json:"asset_name"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (h handlers) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req updateProposalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	proposal, err := h.service.UpdateProposal(r.Context(), r.PathValue("id"), caller.UserID, launchpad.UpdateProposalInput{
		AssetName:   req.AssetName,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalView(proposal))
}

func (h handlers) handleCancelProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	proposal, err := h.service.CancelProposal(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalView(proposal))
}

type investRequest struct {
	Amount int64 `json:"amount"`
}

func (h handlers) handleInvest(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req investRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	investment, proposal, err := h.service.Invest(r.Context(), launchpad.CreateInvestmentInput{
		ProposalID: r.PathValue("id"),
		InvestorID: caller.UserID,
		Amount:     req.Amount,
	})
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, struct {
		Investment investmentView `json:"investment"`
		Proposal   proposalView   `json:"proposal"`
	}{
		Investment: newInvestmentView(investment),
		Proposal:   newProposalView(proposal),
	})
}

func (h handlers) handleRefund(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	investment, err := h.service.Refund(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newInvestmentView(investment))
}

func (h handlers) handleIssueShares(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	proposal, err := h.service.IssueShares(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newProposalView(proposal))
}

type distributeRequest struct {
	Amount int64 `json:"amount"`
}

func (h handlers) handleDistribute(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	var req distributeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	distribution, payouts, err := h.service.Distribute(r.Context(), r.PathValue("id"), caller.UserID, req.Amount)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	h.recordPayouts(r.Context(), distribution.ProposalID, payouts)
	httpx.WriteJSON(w, http.StatusOK, newDistributionView(distribution, payouts))
}

// recordPayouts mirrors distribution payouts into the ledger. The
// distribution itself is already committed; a ledger failure is logged
// rather than surfaced to the caller.
func (h handlers) recordPayouts(ctx context.Context, proposalID string, payouts []storage.Payout) {
	if h.ledger == nil {
		return
	}
	for _, payout := range payouts {
		_, err := h.ledger.Record(ctx, portfolio.RecordTransactionInput{
			UserID:     payout.InvestorID,
			ProposalID: proposalID,
			Type:       portfolio.TransactionDistribution,
			Amount:     payout.Amount,
		})
		if err != nil {
			log.Printf("record distribution payout for %s: %v", payout.InvestorID, err)
		}
	}
}

func (h handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PlatformStats(r.Context())
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newStatsView(stats))
}
