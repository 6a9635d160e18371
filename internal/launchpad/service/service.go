// Package service orchestrates launchpad operations over storage: proposal
// lifecycle, investments, refunds, share issuance, and distributions.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
	"github.com/launchfolio/launchfolio/internal/telemetry"
)

const (
	// requestRateLimit caps requests per actor and operation per window.
	// Operators can retune it at runtime through UpdateRateLimitConfig.
	requestRateLimit = 10
	// rateLimitWindow is the default sliding window length.
	rateLimitWindow = time.Minute
)

// Service implements launchpad operations.
type Service struct {
	store       storage.Store
	limiter     *launchpad.RateLimiter
	emitter     *telemetry.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = gen }
}

// WithEmitter sets the telemetry emitter.
func WithEmitter(emitter *telemetry.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithRateLimiter overrides the request rate limiter.
func WithRateLimiter(limiter *launchpad.RateLimiter) Option {
	return func(s *Service) { s.limiter = limiter }
}

// New creates a launchpad service over the given store.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = launchpad.NewRateLimiter(requestRateLimit, rateLimitWindow, s.clock)
	}
	return s
}

func (s *Service) emit(ctx context.Context, severity telemetry.Severity, kind, subject, message string) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(ctx, telemetry.Event{
		Severity: severity,
		Service:  "launchpad",
		Kind:     kind,
		Subject:  subject,
		Message:  message,
	})
}

// CreateProposal opens a new offering proposal. Creators are limited to a
// fixed number of concurrently active proposals.
func (s *Service) CreateProposal(ctx context.Context, input launchpad.CreateProposalInput) (launchpad.Proposal, error) {
	if err := s.limiter.Allow("proposal:" + input.CreatorID); err != nil {
		return launchpad.Proposal{}, err
	}

	active, err := s.store.CountActiveProposalsByCreator(ctx, input.CreatorID)
	if err != nil {
		return launchpad.Proposal{}, fmt.Errorf("count active proposals: %w", err)
	}
	if active >= launchpad.MaxActiveProposalsPerCreator {
		return launchpad.Proposal{}, apperrors.WithMetadata(
			apperrors.CodeProposalLimitExceeded,
			"too many active proposals",
			map[string]string{"Max": strconv.Itoa(launchpad.MaxActiveProposalsPerCreator)},
		)
	}

	proposal, err := launchpad.CreateProposal(input, s.clock, s.idGenerator)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if err := s.store.CreateProposal(ctx, proposal); err != nil {
		return launchpad.Proposal{}, fmt.Errorf("store proposal: %w", err)
	}
	s.emit(ctx, telemetry.SeverityInfo, "proposal.created", proposal.ID, proposal.AssetName)
	return proposal, nil
}

// GetProposal returns one proposal by id.
func (s *Service) GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error) {
	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return launchpad.Proposal{}, apperrors.New(apperrors.CodeProposalNotFound, "proposal not found")
		}
		return launchpad.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return proposal, nil
}

// ListProposals returns one page of proposals matching the filter.
func (s *Service) ListProposals(ctx context.Context, filter storage.ProposalFilter) (storage.ProposalPage, error) {
	return s.store.ListProposals(ctx, filter)
}

// UpdateProposal applies metadata edits by the proposal's creator.
func (s *Service) UpdateProposal(ctx context.Context, proposalID, creatorID string, input launchpad.UpdateProposalInput) (launchpad.Proposal, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if proposal.CreatorID != creatorID {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeUnauthorized, "only the creator can update a proposal")
	}
	updated, err := launchpad.UpdateProposal(proposal, input, s.clock)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if err := s.store.UpdateProposal(ctx, updated); err != nil {
		return launchpad.Proposal{}, fmt.Errorf("store proposal update: %w", err)
	}
	return updated, nil
}

// CancelProposal withdraws an active proposal and refunds every active
// investment.
func (s *Service) CancelProposal(ctx context.Context, proposalID, creatorID string) (launchpad.Proposal, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if proposal.CreatorID != creatorID {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeUnauthorized, "only the creator can cancel a proposal")
	}
	return s.cancel(ctx, proposal)
}

// ForceCancelProposal withdraws a proposal on behalf of an operator,
// bypassing the creator check. Refund semantics match CancelProposal.
func (s *Service) ForceCancelProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	return s.cancel(ctx, proposal)
}

func (s *Service) cancel(ctx context.Context, proposal launchpad.Proposal) (launchpad.Proposal, error) {
	cancelled, err := launchpad.TransitionProposalStatus(proposal, launchpad.ProposalStatusCancelled, s.clock)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if err := s.refundAll(ctx, &cancelled); err != nil {
		return launchpad.Proposal{}, err
	}
	if err := s.store.UpdateProposal(ctx, cancelled); err != nil {
		return launchpad.Proposal{}, fmt.Errorf("store proposal cancellation: %w", err)
	}
	s.emit(ctx, telemetry.SeverityInfo, "proposal.cancelled", cancelled.ID, cancelled.AssetName)
	return cancelled, nil
}

// Invest commits funds to an active proposal. Repeat investments by the
// same investor merge into their existing position. Reaching the funding
// target transitions the proposal to funded and locks all shares.
func (s *Service) Invest(ctx context.Context, input launchpad.CreateInvestmentInput) (launchpad.Investment, launchpad.Proposal, error) {
	if err := s.limiter.Allow("invest:" + input.InvestorID); err != nil {
		return launchpad.Investment{}, launchpad.Proposal{}, err
	}

	proposal, err := s.GetProposal(ctx, input.ProposalID)
	if err != nil {
		return launchpad.Investment{}, launchpad.Proposal{}, err
	}

	existing, err := s.store.GetInvestment(ctx, proposal.ID, input.InvestorID)
	switch {
	case err == nil:
		merged, mergeErr := launchpad.MergeInvestment(existing, input, proposal, s.clock)
		if mergeErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, mergeErr
		}
		if updateErr := s.store.UpdateInvestment(ctx, merged); updateErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, fmt.Errorf("store merged investment: %w", updateErr)
		}
		existing = merged
	case errors.Is(err, storage.ErrNotFound):
		if proposal.InvestorCount >= launchpad.MaxInvestorsPerProposal {
			return launchpad.Investment{}, launchpad.Proposal{}, apperrors.WithMetadata(
				apperrors.CodeInvestorLimitExceeded,
				"proposal reached its investor limit",
				map[string]string{"Max": strconv.Itoa(launchpad.MaxInvestorsPerProposal)},
			)
		}
		created, createErr := launchpad.CreateInvestment(input, proposal, s.clock, s.idGenerator)
		if createErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, createErr
		}
		if storeErr := s.store.CreateInvestment(ctx, created); storeErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, fmt.Errorf("store investment: %w", storeErr)
		}
		proposal.InvestorCount++
		existing = created
	default:
		return launchpad.Investment{}, launchpad.Proposal{}, fmt.Errorf("get investment: %w", err)
	}

	proposal.RaisedAmount += input.Amount
	proposal.UpdatedAt = s.clock().UTC()

	if proposal.RaisedAmount >= proposal.TargetAmount {
		funded, fundErr := launchpad.TransitionProposalStatus(proposal, launchpad.ProposalStatusFunded, s.clock)
		if fundErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, fundErr
		}
		proposal = funded
		if lockErr := s.lockAllShares(ctx, proposal); lockErr != nil {
			return launchpad.Investment{}, launchpad.Proposal{}, lockErr
		}
		s.emit(ctx, telemetry.SeverityInfo, "proposal.funded", proposal.ID, proposal.AssetName)
	}

	if err := s.store.UpdateProposal(ctx, proposal); err != nil {
		return launchpad.Investment{}, launchpad.Proposal{}, fmt.Errorf("store proposal progress: %w", err)
	}
	return existing, proposal, nil
}

// Refund returns an investor's funds while the proposal is still active or
// after it failed.
func (s *Service) Refund(ctx context.Context, proposalID, investorID string) (launchpad.Investment, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return launchpad.Investment{}, err
	}
	if proposal.Status != launchpad.ProposalStatusActive && proposal.Status != launchpad.ProposalStatusFailed {
		return launchpad.Investment{}, apperrors.New(apperrors.CodeProposalAlreadyFunded, "funds are committed once the proposal funds")
	}

	investment, err := s.store.GetInvestment(ctx, proposalID, investorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return launchpad.Investment{}, apperrors.New(apperrors.CodeInvestmentNotFound, "investment not found")
		}
		return launchpad.Investment{}, fmt.Errorf("get investment: %w", err)
	}

	refunded, err := launchpad.RefundInvestment(investment, s.clock)
	if err != nil {
		return launchpad.Investment{}, err
	}
	if err := s.store.UpdateInvestment(ctx, refunded); err != nil {
		return launchpad.Investment{}, fmt.Errorf("store refund: %w", err)
	}

	proposal.RaisedAmount -= investment.Amount
	if proposal.RaisedAmount < 0 {
		proposal.RaisedAmount = 0
	}
	proposal.InvestorCount--
	if proposal.InvestorCount < 0 {
		proposal.InvestorCount = 0
	}
	proposal.UpdatedAt = s.clock().UTC()
	if err := s.store.UpdateProposal(ctx, proposal); err != nil {
		return launchpad.Investment{}, fmt.Errorf("store proposal progress: %w", err)
	}
	return refunded, nil
}

// IssueShares finalizes a funded proposal: shares become issued, active
// investments are marked distributed, and the proposal completes.
func (s *Service) IssueShares(ctx context.Context, proposalID, creatorID string) (launchpad.Proposal, error) {
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if proposal.CreatorID != creatorID {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeUnauthorized, "only the creator can issue shares")
	}
	if proposal.Status != launchpad.ProposalStatusFunded {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeProposalNotFunded, "proposal has not reached its target")
	}
	if proposal.SharesIssued {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeSharesAlreadyIssued, "shares were already issued")
	}

	investments, err := s.store.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return launchpad.Proposal{}, fmt.Errorf("list investments: %w", err)
	}
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusActive {
			continue
		}
		investment.Status = launchpad.InvestmentStatusDistributed
		investment.UpdatedAt = s.clock().UTC()
		if err := s.store.UpdateInvestment(ctx, investment); err != nil {
			return launchpad.Proposal{}, fmt.Errorf("store issued investment: %w", err)
		}
	}

	proposal.SharesIssued = true
	completed, err := launchpad.TransitionProposalStatus(proposal, launchpad.ProposalStatusCompleted, s.clock)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	if err := s.store.UpdateProposal(ctx, completed); err != nil {
		return launchpad.Proposal{}, fmt.Errorf("store completed proposal: %w", err)
	}
	s.emit(ctx, telemetry.SeverityInfo, "proposal.completed", completed.ID, completed.AssetName)
	return completed, nil
}

// Distribute splits asset income across a completed proposal's investors
// pro-rata by shares, after deducting the platform fee.
func (s *Service) Distribute(ctx context.Context, proposalID, creatorID string, totalAmount int64) (storage.Distribution, []storage.Payout, error) {
	if totalAmount <= 0 {
		return storage.Distribution{}, nil, apperrors.New(apperrors.CodeInvestmentZeroAmount, "distribution amount must be positive")
	}
	proposal, err := s.GetProposal(ctx, proposalID)
	if err != nil {
		return storage.Distribution{}, nil, err
	}
	if proposal.CreatorID != creatorID {
		return storage.Distribution{}, nil, apperrors.New(apperrors.CodeUnauthorized, "only the creator can distribute income")
	}
	if !proposal.SharesIssued {
		return storage.Distribution{}, nil, apperrors.New(apperrors.CodeSharesNotIssued, "shares must be issued before distributing income")
	}

	investments, err := s.store.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return storage.Distribution{}, nil, fmt.Errorf("list investments: %w", err)
	}

	platformFee := totalAmount * launchpad.PlatformFeeBps / 10_000
	distributable := totalAmount - platformFee

	var payouts []storage.Payout
	var totalShares int64
	for _, investment := range investments {
		if investment.Status == launchpad.InvestmentStatusDistributed {
			totalShares += investment.Shares
		}
	}
	if totalShares == 0 {
		return storage.Distribution{}, nil, apperrors.New(apperrors.CodeNoDistributableInvestment, "proposal has no distributable investments")
	}

	distributionID, err := s.idGenerator()
	if err != nil {
		return storage.Distribution{}, nil, fmt.Errorf("generate distribution id: %w", err)
	}
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusDistributed {
			continue
		}
		payouts = append(payouts, storage.Payout{
			DistributionID: distributionID,
			InvestorID:     investment.InvestorID,
			Amount:         distributable * investment.Shares / totalShares,
		})
	}

	distribution := storage.Distribution{
		ID:          distributionID,
		ProposalID:  proposal.ID,
		TotalAmount: totalAmount,
		PlatformFee: platformFee,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.store.CreateDistribution(ctx, distribution, payouts); err != nil {
		return storage.Distribution{}, nil, fmt.Errorf("store distribution: %w", err)
	}
	s.emit(ctx, telemetry.SeverityInfo, "proposal.distribution", proposal.ID, strconv.FormatInt(totalAmount, 10))
	return distribution, payouts, nil
}

// SweepExpired fails every active proposal whose deadline passed below
// target and refunds its investors. It returns the failed proposal ids.
func (s *Service) SweepExpired(ctx context.Context) ([]string, error) {
	now := s.clock().UTC()
	expired, err := s.store.ListExpiredActiveProposals(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list expired proposals: %w", err)
	}

	var failed []string
	for _, proposal := range expired {
		transitioned, err := launchpad.TransitionProposalStatus(proposal, launchpad.ProposalStatusFailed, s.clock)
		if err != nil {
			return failed, err
		}
		if err := s.refundAll(ctx, &transitioned); err != nil {
			return failed, err
		}
		if err := s.store.UpdateProposal(ctx, transitioned); err != nil {
			return failed, fmt.Errorf("store failed proposal: %w", err)
		}
		s.emit(ctx, telemetry.SeverityWarn, "proposal.expired", transitioned.ID, transitioned.AssetName)
		failed = append(failed, transitioned.ID)
	}
	return failed, nil
}

// ReleaseLockups releases every lockup whose holding period has elapsed and
// returns the released lockups.
func (s *Service) ReleaseLockups(ctx context.Context) ([]launchpad.Lockup, error) {
	now := s.clock().UTC()
	releasable, err := s.store.ListReleasableLockups(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list releasable lockups: %w", err)
	}
	var released []launchpad.Lockup
	for _, lockup := range releasable {
		updated, err := launchpad.ReleaseLockup(lockup, s.clock)
		if err != nil {
			return released, err
		}
		if err := s.store.UpdateLockup(ctx, updated); err != nil {
			return released, fmt.Errorf("store released lockup: %w", err)
		}
		released = append(released, updated)
	}
	return released, nil
}

// ListInvestorPositions returns all of an investor's investments.
func (s *Service) ListInvestorPositions(ctx context.Context, investorID string) ([]launchpad.Investment, error) {
	return s.store.ListInvestmentsByInvestor(ctx, investorID)
}

// ListInvestorLockups returns all of an investor's lockups.
func (s *Service) ListInvestorLockups(ctx context.Context, investorID string) ([]launchpad.Lockup, error) {
	return s.store.ListLockupsByInvestor(ctx, investorID)
}

// PlatformStats aggregates launchpad-wide totals.
func (s *Service) PlatformStats(ctx context.Context) (storage.PlatformStats, error) {
	return s.store.GetPlatformStats(ctx)
}

// RateLimitConfig returns the current request limiter settings.
func (s *Service) RateLimitConfig() launchpad.RateLimitConfig {
	return s.limiter.Config()
}

// UpdateRateLimitConfig replaces the request limiter settings.
func (s *Service) UpdateRateLimitConfig(ctx context.Context, cfg launchpad.RateLimitConfig) error {
	if err := s.limiter.SetConfig(cfg); err != nil {
		return err
	}
	s.emit(ctx, telemetry.SeverityInfo, "launchpad.rate_limit_updated", "",
		fmt.Sprintf("limit=%d window=%s enabled=%t", cfg.Limit, cfg.Window, cfg.Enabled))
	return nil
}

// CreatorProfile folds all of a creator's proposals into a track record.
func (s *Service) CreatorProfile(ctx context.Context, creatorID string) (launchpad.CreatorProfile, error) {
	var proposals []launchpad.Proposal
	filter := storage.ProposalFilter{CreatorID: creatorID}
	for {
		page, err := s.store.ListProposals(ctx, filter)
		if err != nil {
			return launchpad.CreatorProfile{}, fmt.Errorf("list creator proposals: %w", err)
		}
		proposals = append(proposals, page.Proposals...)
		if page.NextPageToken == "" {
			break
		}
		filter.PageToken = page.NextPageToken
	}
	if len(proposals) == 0 {
		return launchpad.CreatorProfile{}, apperrors.New(apperrors.CodeProposalNotFound, "creator has no proposals")
	}
	return launchpad.ComputeCreatorProfile(creatorID, proposals), nil
}

func (s *Service) refundAll(ctx context.Context, proposal *launchpad.Proposal) error {
	investments, err := s.store.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return fmt.Errorf("list investments: %w", err)
	}
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusActive {
			continue
		}
		refunded, err := launchpad.RefundInvestment(investment, s.clock)
		if err != nil {
			return err
		}
		if err := s.store.UpdateInvestment(ctx, refunded); err != nil {
			return fmt.Errorf("store refund: %w", err)
		}
		proposal.RaisedAmount -= investment.Amount
		if proposal.RaisedAmount < 0 {
			proposal.RaisedAmount = 0
		}
	}
	proposal.InvestorCount = 0
	return nil
}

func (s *Service) lockAllShares(ctx context.Context, proposal launchpad.Proposal) error {
	if proposal.FundedAt == nil {
		return apperrors.New(apperrors.CodeLockupNotStarted, "proposal has no funding time")
	}
	investments, err := s.store.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return fmt.Errorf("list investments: %w", err)
	}
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusActive {
			continue
		}
		lockup, err := launchpad.CreateLockup(investment, *proposal.FundedAt, s.idGenerator)
		if err != nil {
			return err
		}
		if err := s.store.CreateLockup(ctx, lockup); err != nil {
			return fmt.Errorf("store lockup: %w", err)
		}
	}
	return nil
}
