package governanceapi

import (
	"net/http"

	"github.com/launchfolio/launchfolio/internal/governance"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

type handlers struct {
	service *governance.Service
}

type infoView struct {
	ProposalID   string `json:"proposal_id"`
	AssetID      string `json:"asset_id"`
	AssetName    string `json:"asset_name"`
	HolderCount  int    `json:"holder_count"`
	TotalShares  int64  `json:"total_shares"`
	IssuedShares int64  `json:"issued_shares"`
	Eligible     bool   `json:"eligible"`
}

func newInfoView(info governance.Info) infoView {
	return infoView{
		ProposalID:   info.ProposalID,
		AssetID:      info.AssetID,
		AssetName:    info.AssetName,
		HolderCount:  info.HolderCount,
		TotalShares:  info.TotalShares,
		IssuedShares: info.IssuedShares,
		Eligible:     info.Eligible,
	}
}

type powerView struct {
	ProposalID string `json:"proposal_id"`
	InvestorID string `json:"investor_id"`
	Shares     int64  `json:"shares"`
	Bps        int64  `json:"bps"`
}

func newPowerView(power governance.Power) powerView {
	return powerView{
		ProposalID: power.ProposalID,
		InvestorID: power.InvestorID,
		Shares:     power.Shares,
		Bps:        power.Bps,
	}
}

func (h handlers) handleProposalInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.ProposalInfo(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newInfoView(info))
}

func (h handlers) handleVotingPower(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	power, err := h.service.VotingPower(r.Context(), r.PathValue("id"), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newPowerView(power))
}

type eligibilityView struct {
	Info  infoView  `json:"info"`
	Power powerView `json:"power"`
}

func (h handlers) handleListEligibility(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal.RequireCaller(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListEligibility(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, err, httpx.Locale(r))
		return
	}
	views := make([]eligibilityView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, eligibilityView{
			Info:  newInfoView(entry.Info),
			Power: newPowerView(entry.Power),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		Eligibility []eligibilityView `json:"eligibility"`
	}{Eligibility: views})
}
