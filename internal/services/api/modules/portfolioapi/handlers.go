package portfolioapi

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	"github.com/launchfolio/launchfolio/internal/portfolio/storage"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

type handlers struct {
	service *portfolioservice.Service
}

type transactionView struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposal_id"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
	Shares     int64  `json:"shares,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type transactionPageView struct {
	Transactions  []transactionView `json:"transactions"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

func newTransactionPageView(page storage.TransactionPage) transactionPageView {
	view := transactionPageView{
		Transactions:  make([]transactionView, 0, len(page.Transactions)),
		NextPageToken: page.NextPageToken,
	}
	for _, txn := range page.Transactions {
		view.Transactions = append(view.Transactions, transactionView{
			ID:         txn.ID,
			ProposalID: txn.ProposalID,
			Type:       string(txn.Type),
			Amount:     txn.Amount,
			Shares:     txn.Shares,
			OccurredAt: txn.OccurredAt.Format(time.RFC3339),
		})
	}
	return view
}

type positionView struct {
	ProposalID   string `json:"proposal_id"`
	AssetName    string `json:"asset_name"`
	Shares       int64  `json:"shares"`
	Invested     int64  `json:"invested"`
	OwnershipBps int64  `json:"ownership_bps"`
	Locked       bool   `json:"locked"`
	UnlockAt     string `json:"unlock_at,omitempty"`
}

type summaryView struct {
	TotalInvested      int64          `json:"total_invested"`
	TotalDistributions int64          `json:"total_distributions"`
	TotalRefunded      int64          `json:"total_refunded"`
	NetContribution    int64          `json:"net_contribution"`
	CurrentHoldings    int64          `json:"current_holdings"`
	ActivePositions    int            `json:"active_positions"`
	LockedShares       int64          `json:"locked_shares"`
	Positions          []positionView `json:"positions"`
}

func newSummaryView(summary portfolio.Summary) summaryView {
	view := summaryView{
		TotalInvested:      summary.TotalInvested,
		TotalDistributions: summary.TotalDistributions,
		TotalRefunded:      summary.TotalRefunded,
		NetContribution:    summary.NetContribution,
		CurrentHoldings:    summary.CurrentHoldings,
		ActivePositions:    summary.ActivePositions,
		LockedShares:       summary.LockedShares,
		Positions:          make([]positionView, 0, len(summary.Positions)),
	}
	for _, position := range summary.Positions {
		pv := positionView{
			ProposalID:   position.ProposalID,
			AssetName:    position.AssetName,
			Shares:       position.Shares,
			Invested:     position.Invested,
			OwnershipBps: position.OwnershipBps,
			Locked:       position.Locked,
		}
		if position.UnlockAt != nil {
			pv.UnlockAt = position.UnlockAt.Format(time.RFC3339)
		}
		view.Positions = append(view.Positions, pv)
	}
	return view
}

func (h handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	req := portfolioservice.HistoryRequest{
		Filter:    query.Get("filter"),
		OrderBy:   query.Get("order_by"),
		PageToken: query.Get("page_token"),
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "page_size must be an integer"), httpx.Locale(r))
			return
		}
		req.PageSize = size
	}
	page, err := h.service.History(r.Context(), caller.UserID, req)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTransactionPageView(page))
}

func (h handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSummaryView(summary))
}
