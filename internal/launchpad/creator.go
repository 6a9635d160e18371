package launchpad

// CreatorProfile aggregates a creator's track record across their
// proposals.
type CreatorProfile struct {
	CreatorID          string
	TotalProposals     int
	ActiveProposals    int
	FundedProposals    int
	CompletedProposals int
	FailedProposals    int
	CancelledProposals int
	// SuccessRateBps is completed proposals over resolved proposals
	// (completed + failed + cancelled) in basis points.
	SuccessRateBps int64
	// Rating maps the success rate onto a 0-500 scale (hundredths of
	// a five-star rating). Creators with no resolved proposals get 0.
	Rating int64
	// TotalValueLocked sums the raised amounts of funded and completed
	// proposals.
	TotalValueLocked int64
}

// ComputeCreatorProfile folds a creator's proposals into a profile.
func ComputeCreatorProfile(creatorID string, proposals []Proposal) CreatorProfile {
	profile := CreatorProfile{CreatorID: creatorID}
	for _, p := range proposals {
		if p.CreatorID != creatorID {
			continue
		}
		profile.TotalProposals++
		switch p.Status {
		case ProposalStatusActive:
			profile.ActiveProposals++
		case ProposalStatusFunded:
			profile.FundedProposals++
			profile.TotalValueLocked += p.RaisedAmount
		case ProposalStatusCompleted:
			profile.CompletedProposals++
			profile.TotalValueLocked += p.RaisedAmount
		case ProposalStatusFailed:
			profile.FailedProposals++
		case ProposalStatusCancelled:
			profile.CancelledProposals++
		}
	}
	resolved := profile.CompletedProposals + profile.FailedProposals + profile.CancelledProposals
	if resolved > 0 {
		profile.SuccessRateBps = int64(profile.CompletedProposals) * 10_000 / int64(resolved)
		profile.Rating = profile.SuccessRateBps * 500 / 10_000
	}
	return profile
}
