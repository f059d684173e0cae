package transactionrepo

import (
	"context"
	"errors"

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

func (r *Repository) GetByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `
        SELECT id, payer_id, payee_id, amount, status, product_id, subscription_id,
               platform_fee, original_price, price_with_fee, balance_status, created_at
        FROM transactions
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, transactionID)

	var txn domain.Transaction
	err := row.Scan(
		&txn.ID, &txn.PayerID, &txn.PayeeID, &txn.Amount, &txn.Status,
		&txn.ProductID, &txn.SubscriptionID, &txn.PlatformFee,
		&txn.OriginalPrice, &txn.PriceWithFee, &txn.BalanceStatus, &txn.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return &txn, nil
}

// MarkRefunded flips a completed transaction to refunded. The status guard
// in the WHERE clause makes a second refund a no-op, reported as false.
func (r *Repository) MarkRefunded(ctx context.Context, transactionID int64) (bool, error) {
	query := `
        UPDATE transactions
        SET status = 'refunded'
        WHERE id = $1 AND status = 'completed'
    `
	tag, err := r.db.Exec(ctx, query, transactionID)
	if err != nil {
		zap.L().Error("failed to mark transaction refunded", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
