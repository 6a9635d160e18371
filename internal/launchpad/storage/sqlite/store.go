// Package sqlite provides a SQLite-backed launchpad storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage"
	"github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite/migrations"
	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
)

// Store persists launchpad state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	at := fromMillis(value.Int64)
	return &at
}

// Open opens a SQLite launchpad store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

const proposalColumns = `id, creator_id, asset_name, asset_type, category, location, description,
	target_amount, share_price, total_shares, min_investment, expected_apy_bps,
	status, funding_deadline, raised_amount, investor_count, shares_issued,
	created_at, updated_at, funded_at, completed_at, cancelled_at`

func scanProposal(row interface{ Scan(...any) error }) (launchpad.Proposal, error) {
	var p launchpad.Proposal
	var status int
	var sharesIssued int
	var deadline, createdAt, updatedAt int64
	var fundedAt, completedAt, cancelledAt sql.NullInt64
	err := row.Scan(
		&p.ID, &p.CreatorID, &p.AssetName, (*string)(&p.AssetType), &p.Category, &p.Location, &p.Description,
		&p.TargetAmount, &p.SharePrice, &p.TotalShares, &p.MinInvestment, &p.ExpectedAPYBps,
		&status, &deadline, &p.RaisedAmount, &p.InvestorCount, &sharesIssued,
		&createdAt, &updatedAt, &fundedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return launchpad.Proposal{}, err
	}
	p.Status = launchpad.ProposalStatus(status)
	p.SharesIssued = sharesIssued != 0
	p.FundingDeadline = fromMillis(deadline)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	p.FundedAt = fromNullMillis(fundedAt)
	p.CompletedAt = fromNullMillis(completedAt)
	p.CancelledAt = fromNullMillis(cancelledAt)
	return p, nil
}

// CreateProposal inserts one proposal record.
func (s *Store) CreateProposal(ctx context.Context, proposal launchpad.Proposal) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(proposal.ID) == "" {
		return fmt.Errorf("proposal id is required")
	}
	sharesIssued := 0
	if proposal.SharesIssued {
		sharesIssued = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO proposals (`+proposalColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.ID, proposal.CreatorID, proposal.AssetName, string(proposal.AssetType),
		proposal.Category, proposal.Location, proposal.Description,
		proposal.TargetAmount, proposal.SharePrice, proposal.TotalShares,
		proposal.MinInvestment, proposal.ExpectedAPYBps,
		int(proposal.Status), toMillis(proposal.FundingDeadline),
		proposal.RaisedAmount, proposal.InvestorCount, sharesIssued,
		toMillis(proposal.CreatedAt), toMillis(proposal.UpdatedAt),
		toNullMillis(proposal.FundedAt), toNullMillis(proposal.CompletedAt), toNullMillis(proposal.CancelledAt),
	)
	if err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

// GetProposal returns one proposal by ID.
func (s *Store) GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error) {
	if err := s.ready(ctx); err != nil {
		return launchpad.Proposal{}, err
	}
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return launchpad.Proposal{}, fmt.Errorf("proposal id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE id = ?`,
		proposalID,
	)
	proposal, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return launchpad.Proposal{}, storage.ErrNotFound
		}
		return launchpad.Proposal{}, fmt.Errorf("get proposal: %w", err)
	}
	return proposal, nil
}

// UpdateProposal replaces one proposal record.
func (s *Store) UpdateProposal(ctx context.Context, proposal launchpad.Proposal) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	sharesIssued := 0
	if proposal.SharesIssued {
		sharesIssued = 1
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE proposals SET
		   asset_name = ?, asset_type = ?, category = ?, location = ?, description = ?,
		   status = ?, funding_deadline = ?, raised_amount = ?, investor_count = ?,
		   shares_issued = ?, updated_at = ?, funded_at = ?, completed_at = ?, cancelled_at = ?
		 WHERE id = ?`,
		proposal.AssetName, string(proposal.AssetType), proposal.Category, proposal.Location, proposal.Description,
		int(proposal.Status), toMillis(proposal.FundingDeadline), proposal.RaisedAmount, proposal.InvestorCount,
		sharesIssued, toMillis(proposal.UpdatedAt),
		toNullMillis(proposal.FundedAt), toNullMillis(proposal.CompletedAt), toNullMillis(proposal.CancelledAt),
		proposal.ID,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListProposals returns one page of proposals matching the filter, newest
// first within a stable id ordering.
func (s *Store) ListProposals(ctx context.Context, filter storage.ProposalFilter) (storage.ProposalPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ProposalPage{}, err
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		return storage.ProposalPage{}, fmt.Errorf("page size must be greater than zero")
	}

	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE 1=1`
	args := []any{}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, int(*filter.Status))
	}
	if creatorID := strings.TrimSpace(filter.CreatorID); creatorID != "" {
		query += ` AND creator_id = ?`
		args = append(args, creatorID)
	}
	if pageToken := strings.TrimSpace(filter.PageToken); pageToken != "" {
		query += ` AND id > ?`
		args = append(args, pageToken)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.ProposalPage{}, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	page := storage.ProposalPage{Proposals: make([]launchpad.Proposal, 0, pageSize)}
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return storage.ProposalPage{}, fmt.Errorf("scan proposal: %w", err)
		}
		page.Proposals = append(page.Proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return storage.ProposalPage{}, fmt.Errorf("scan proposals: %w", err)
	}
	if len(page.Proposals) > pageSize {
		page.Proposals = page.Proposals[:pageSize]
		page.NextPageToken = page.Proposals[pageSize-1].ID
	}
	return page, nil
}

// CountActiveProposalsByCreator counts a creator's active proposals.
func (s *Store) CountActiveProposalsByCreator(ctx context.Context, creatorID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return 0, fmt.Errorf("creator id is required")
	}
	var count int
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM proposals WHERE creator_id = ? AND status = ?`,
		creatorID,
		int(launchpad.ProposalStatusActive),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active proposals: %w", err)
	}
	return count, nil
}

// ListExpiredActiveProposals returns active proposals whose funding
// deadline has passed.
func (s *Store) ListExpiredActiveProposals(ctx context.Context, now time.Time) ([]launchpad.Proposal, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+proposalColumns+` FROM proposals
		  WHERE status = ? AND funding_deadline < ?
		  ORDER BY funding_deadline ASC`,
		int(launchpad.ProposalStatusActive),
		toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("list expired proposals: %w", err)
	}
	defer rows.Close()

	var proposals []launchpad.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan proposals: %w", err)
	}
	return proposals, nil
}

// GetPlatformStats aggregates launchpad-wide totals.
func (s *Store) GetPlatformStats(ctx context.Context) (storage.PlatformStats, error) {
	if err := s.ready(ctx); err != nil {
		return storage.PlatformStats{}, err
	}
	var stats storage.PlatformStats
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN raised_amount ELSE 0 END), 0)
		   FROM proposals`,
		int(launchpad.ProposalStatusActive),
		int(launchpad.ProposalStatusFunded),
		int(launchpad.ProposalStatusCompleted),
		int(launchpad.ProposalStatusFunded),
		int(launchpad.ProposalStatusCompleted),
	).Scan(&stats.TotalProposals, &stats.ActiveProposals, &stats.FundedProposals, &stats.CompletedProposals, &stats.TotalRaised)
	if err != nil {
		return storage.PlatformStats{}, fmt.Errorf("platform stats: %w", err)
	}
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(DISTINCT investor_id) FROM investments WHERE status != ?`,
		int(launchpad.InvestmentStatusRefunded),
	).Scan(&stats.TotalInvestors)
	if err != nil {
		return storage.PlatformStats{}, fmt.Errorf("platform stats investors: %w", err)
	}
	return stats, nil
}

const investmentColumns = `id, proposal_id, investor_id, amount, shares, status, created_at, updated_at`

func scanInvestment(row interface{ Scan(...any) error }) (launchpad.Investment, error) {
	var inv launchpad.Investment
	var status int
	var createdAt, updatedAt int64
	err := row.Scan(&inv.ID, &inv.ProposalID, &inv.InvestorID, &inv.Amount, &inv.Shares, &status, &createdAt, &updatedAt)
	if err != nil {
		return launchpad.Investment{}, err
	}
	inv.Status = launchpad.InvestmentStatus(status)
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}

// CreateInvestment inserts one investment record.
func (s *Store) CreateInvestment(ctx context.Context, investment launchpad.Investment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO investments (`+investmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		investment.ID, investment.ProposalID, investment.InvestorID,
		investment.Amount, investment.Shares, int(investment.Status),
		toMillis(investment.CreatedAt), toMillis(investment.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create investment: %w", err)
	}
	return nil
}

// UpdateInvestment replaces one investment record.
func (s *Store) UpdateInvestment(ctx context.Context, investment launchpad.Investment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE investments SET amount = ?, shares = ?, status = ?, updated_at = ? WHERE id = ?`,
		investment.Amount, investment.Shares, int(investment.Status), toMillis(investment.UpdatedAt), investment.ID,
	)
	if err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetInvestment returns one investor's position in a proposal.
func (s *Store) GetInvestment(ctx context.Context, proposalID, investorID string) (launchpad.Investment, error) {
	if err := s.ready(ctx); err != nil {
		return launchpad.Investment{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE proposal_id = ? AND investor_id = ?`,
		strings.TrimSpace(proposalID),
		strings.TrimSpace(investorID),
	)
	investment, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return launchpad.Investment{}, storage.ErrNotFound
		}
		return launchpad.Investment{}, fmt.Errorf("get investment: %w", err)
	}
	return investment, nil
}

func (s *Store) listInvestments(ctx context.Context, column, value string) ([]launchpad.Investment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%s is required", column)
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE `+column+` = ? ORDER BY created_at ASC, id ASC`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var investments []launchpad.Investment
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan investments: %w", err)
	}
	return investments, nil
}

// ListInvestmentsByProposal returns all positions in one proposal.
func (s *Store) ListInvestmentsByProposal(ctx context.Context, proposalID string) ([]launchpad.Investment, error) {
	return s.listInvestments(ctx, "proposal_id", proposalID)
}

// ListInvestmentsByInvestor returns one investor's positions.
func (s *Store) ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]launchpad.Investment, error) {
	return s.listInvestments(ctx, "investor_id", investorID)
}

const lockupColumns = `id, proposal_id, investor_id, shares, locked_at, unlock_at, released_at`

func scanLockup(row interface{ Scan(...any) error }) (launchpad.Lockup, error) {
	var l launchpad.Lockup
	var lockedAt, unlockAt int64
	var releasedAt sql.NullInt64
	err := row.Scan(&l.ID, &l.ProposalID, &l.InvestorID, &l.Shares, &lockedAt, &unlockAt, &releasedAt)
	if err != nil {
		return launchpad.Lockup{}, err
	}
	l.LockedAt = fromMillis(lockedAt)
	l.UnlockAt = fromMillis(unlockAt)
	l.ReleasedAt = fromNullMillis(releasedAt)
	return l, nil
}

// CreateLockup inserts one lockup record.
func (s *Store) CreateLockup(ctx context.Context, lockup launchpad.Lockup) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO lockups (`+lockupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lockup.ID, lockup.ProposalID, lockup.InvestorID, lockup.Shares,
		toMillis(lockup.LockedAt), toMillis(lockup.UnlockAt), toNullMillis(lockup.ReleasedAt),
	)
	if err != nil {
		return fmt.Errorf("create lockup: %w", err)
	}
	return nil
}

// UpdateLockup replaces one lockup record.
func (s *Store) UpdateLockup(ctx context.Context, lockup launchpad.Lockup) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE lockups SET released_at = ? WHERE id = ?`,
		toNullMillis(lockup.ReleasedAt), lockup.ID,
	)
	if err != nil {
		return fmt.Errorf("update lockup: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lockup: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListLockupsByInvestor returns one investor's lockups.
func (s *Store) ListLockupsByInvestor(ctx context.Context, investorID string) ([]launchpad.Lockup, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	investorID = strings.TrimSpace(investorID)
	if investorID == "" {
		return nil, fmt.Errorf("investor id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+lockupColumns+` FROM lockups WHERE investor_id = ? ORDER BY unlock_at ASC, id ASC`,
		investorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lockups: %w", err)
	}
	defer rows.Close()
	return collectLockups(rows)
}

// ListReleasableLockups returns unreleased lockups whose holding period has
// elapsed.
func (s *Store) ListReleasableLockups(ctx context.Context, now time.Time) ([]launchpad.Lockup, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+lockupColumns+` FROM lockups
		  WHERE released_at IS NULL AND unlock_at <= ?
		  ORDER BY unlock_at ASC, id ASC`,
		toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("list releasable lockups: %w", err)
	}
	defer rows.Close()
	return collectLockups(rows)
}

func collectLockups(rows *sql.Rows) ([]launchpad.Lockup, error) {
	var lockups []launchpad.Lockup
	for rows.Next() {
		lockup, err := scanLockup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lockup: %w", err)
		}
		lockups = append(lockups, lockup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan lockups: %w", err)
	}
	return lockups, nil
}

// CreateDistribution inserts one distribution and its payouts atomically.
func (s *Store) CreateDistribution(ctx context.Context, distribution storage.Distribution, payouts []storage.Payout) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin distribution: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO distributions (id, proposal_id, total_amount, platform_fee, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		distribution.ID, distribution.ProposalID, distribution.TotalAmount,
		distribution.PlatformFee, toMillis(distribution.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create distribution: %w", err)
	}
	for _, payout := range payouts {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO distribution_payouts (distribution_id, investor_id, amount) VALUES (?, ?, ?)`,
			distribution.ID, payout.InvestorID, payout.Amount,
		)
		if err != nil {
			return fmt.Errorf("create payout: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit distribution: %w", err)
	}
	return nil
}

// ListDistributionsByProposal returns a proposal's distributions, oldest
// first.
func (s *Store) ListDistributionsByProposal(ctx context.Context, proposalID string) ([]storage.Distribution, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return nil, fmt.Errorf("proposal id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, proposal_id, total_amount, platform_fee, created_at
		   FROM distributions WHERE proposal_id = ? ORDER BY created_at ASC, id ASC`,
		proposalID,
	)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	defer rows.Close()

	var distributions []storage.Distribution
	for rows.Next() {
		var d storage.Distribution
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.ProposalID, &d.TotalAmount, &d.PlatformFee, &createdAt); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		d.CreatedAt = fromMillis(createdAt)
		distributions = append(distributions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan distributions: %w", err)
	}
	return distributions, nil
}

// ListPayoutsByInvestor returns one investor's payouts across proposals.
func (s *Store) ListPayoutsByInvestor(ctx context.Context, investorID string) ([]storage.Payout, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	investorID = strings.TrimSpace(investorID)
	if investorID == "" {
		return nil, fmt.Errorf("investor id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT distribution_id, investor_id, amount
		   FROM distribution_payouts WHERE investor_id = ? ORDER BY distribution_id ASC`,
		investorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []storage.Payout
	for rows.Next() {
		var p storage.Payout
		if err := rows.Scan(&p.DistributionID, &p.InvestorID, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan payouts: %w", err)
	}
	return payouts, nil
}
