package payoutrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, payout *domain.Payout) (*domain.Payout, error) {
	query := `
        INSERT INTO payouts (user_id, amount, currency, status, payment_details, requested_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, payout.UserID, payout.Amount, payout.Currency, payout.Status, payout.PaymentDetails, payout.RequestedAt).
		Scan(&payout.ID)
	if err != nil {
		zap.L().Error("can't save payout", zap.Error(err))
		return nil, err
	}
	return payout, nil
}

func (r *Repository) GetByID(ctx context.Context, payoutID int64) (*domain.Payout, error) {
	query := `
        SELECT id, user_id, amount, currency, status, payment_details, provider_details,
               requested_at, reviewed_at, paid_at, reviewing_admin_id
        FROM payouts
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, payoutID)

	var payout domain.Payout
	err := row.Scan(
		&payout.ID, &payout.UserID, &payout.Amount, &payout.Currency, &payout.Status,
		&payout.PaymentDetails, &payout.ProviderDetails, &payout.RequestedAt,
		&payout.ReviewedAt, &payout.PaidAt, &payout.ReviewingAdminID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payout", zap.Error(err))
		return nil, err
	}
	return &payout, nil
}

// SumNonTerminalByUserID returns the total amount reserved by the user's
// pending, approved and processing payouts.
func (r *Repository) SumNonTerminalByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM payouts
        WHERE user_id = $1 AND status NOT IN ('paid', 'rejected')
    `
	var sum int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		zap.L().Error("failed to sum open payouts", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

// TransitionStatus flips the payout to toStatus only if its status is still
// one of fromStatuses. It returns false when no row matched, meaning a
// concurrent actor already moved the payout on.
func (r *Repository) TransitionStatus(ctx context.Context, payoutID int64, fromStatuses []string, toStatus string, adminID int64, reviewedAt time.Time) (bool, error) {
	query := `
        UPDATE payouts
        SET status = $1, reviewing_admin_id = $2, reviewed_at = $3
        WHERE id = $4 AND status = ANY($5)
    `
	tag, err := r.db.Exec(ctx, query, toStatus, adminID, reviewedAt, payoutID, fromStatuses)
	if err != nil {
		zap.L().Error("failed to update payout status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid is the terminal disbursement write: status, provider reference
// and paid_at move together, still guarded by the processing precondition.
func (r *Repository) MarkPaid(ctx context.Context, payoutID int64, adminID int64, providerDetails string, paidAt time.Time) (bool, error) {
	query := `
        UPDATE payouts
        SET status = 'paid', reviewing_admin_id = $1, provider_details = $2, paid_at = $3
        WHERE id = $4 AND status = 'processing'
    `
	tag, err := r.db.Exec(ctx, query, adminID, providerDetails, paidAt, payoutID)
	if err != nil {
		zap.L().Error("failed to mark payout paid", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) FindByStatus(ctx context.Context, status string) ([]domain.Payout, error) {
	query := `
        SELECT id, user_id, amount, currency, status, payment_details, provider_details,
               requested_at, reviewed_at, paid_at, reviewing_admin_id
        FROM payouts
        WHERE status = $1
        ORDER BY requested_at ASC
    `
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		zap.L().Error("can't get payouts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.Payout
	for rows.Next() {
		var payout domain.Payout
		err := rows.Scan(
			&payout.ID, &payout.UserID, &payout.Amount, &payout.Currency, &payout.Status,
			&payout.PaymentDetails, &payout.ProviderDetails, &payout.RequestedAt,
			&payout.ReviewedAt, &payout.PaidAt, &payout.ReviewingAdminID,
		)
		if err != nil {
			zap.L().Error("can't scan payout row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, payout)
	}
	return payouts, nil
}
