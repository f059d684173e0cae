package orderrepo

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

func (r *Repository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `
        SELECT id, buyer_id, seller_id, amount, platform_fee, escrow_status,
               released_at, releasing_admin_id, created_at
        FROM orders
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, orderID)

	var order domain.Order
	err := row.Scan(
		&order.ID, &order.BuyerID, &order.SellerID, &order.Amount, &order.PlatformFee,
		&order.EscrowStatus, &order.ReleasedAt, &order.ReleasingAdminID, &order.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

// MarkReleased performs the one-way held -> released flip. A released order
// never matches the WHERE clause again, so release cannot double-apply.
func (r *Repository) MarkReleased(ctx context.Context, orderID, adminID int64, releasedAt time.Time) (bool, error) {
	query := `
        UPDATE orders
        SET escrow_status = 'released', released_at = $1, releasing_admin_id = $2
        WHERE id = $3 AND escrow_status = 'held'
    `
	tag, err := r.db.Exec(ctx, query, releasedAt, adminID, orderID)
	if err != nil {
		zap.L().Error("failed to release order escrow", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
