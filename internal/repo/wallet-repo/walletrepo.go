package walletrepo

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

func (r *Repository) GetByID(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	query := `
        SELECT id, owner_user_id, currency, balance, version, created_at
        FROM wallets
        WHERE id = $1
    `
	return r.scanWallet(r.db.QueryRow(ctx, query, walletID))
}

// lockTimeout bounds the FOR UPDATE wait; a timed-out acquisition surfaces
// as SQLSTATE 55P03.
const lockTimeout = "3s"

// GetByIDForUpdate locks the wallet row for the duration of the enclosing
// transaction. Callers locking more than one wallet must do so in ascending
// wallet id order.
func (r *Repository) GetByIDForUpdate(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	// SET LOCAL is scoped to the transaction this read joins
	if _, err := r.db.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		zap.L().Error("failed to set lock timeout", zap.Error(err))
		return nil, err
	}
	query := `
        SELECT id, owner_user_id, currency, balance, version, created_at
        FROM wallets
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanWallet(r.db.QueryRow(ctx, query, walletID))
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	query := `
        SELECT id, owner_user_id, currency, balance, version, created_at
        FROM wallets
        WHERE owner_user_id = $1
    `
	return r.scanWallet(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.OwnerUserID, &wallet.Currency, &wallet.Balance, &wallet.Version, &wallet.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

func (r *Repository) Create(ctx context.Context, userID int64, currency string) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (owner_user_id, currency, balance, version)
        VALUES ($1, $2, 0, 1)
        RETURNING id, owner_user_id, currency, balance, version, created_at
    `
	row := r.db.QueryRow(ctx, query, userID, currency)
	var wallet domain.Wallet
	err := row.Scan(&wallet.ID, &wallet.OwnerUserID, &wallet.Currency, &wallet.Balance, &wallet.Version, &wallet.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

// UpdateBalance applies a compare-and-swap on the wallet row. It returns
// false when the version no longer matches, in which case the caller
// re-reads and retries.
func (r *Repository) UpdateBalance(ctx context.Context, walletID, newBalance, expectedVersion int64) (bool, error) {
	query := `
        UPDATE wallets
        SET balance = $1, version = version + 1
        WHERE id = $2 AND version = $3
    `
	tag, err := r.db.Exec(ctx, query, newBalance, walletID, expectedVersion)
	if err != nil {
		zap.L().Error("failed to update wallet balance", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry *domain.WalletEntry) (*domain.WalletEntry, error) {
	query := `
        INSERT INTO wallet_entries (wallet_id, type, amount, reason, reference, acting_admin_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, entry.WalletID, entry.Type, entry.Amount, entry.Reason, entry.Reference, entry.ActingAdminID).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		zap.L().Error("can't save wallet entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *Repository) GetEntriesByWalletID(ctx context.Context, walletID int64) ([]domain.WalletEntry, error) {
	query := `
        SELECT id, wallet_id, type, amount, reason, reference, acting_admin_id, created_at
        FROM wallet_entries
        WHERE wallet_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, walletID)
	if err != nil {
		zap.L().Error("failed to fetch wallet entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WalletEntry
	for rows.Next() {
		var entry domain.WalletEntry
		err := rows.Scan(&entry.ID, &entry.WalletID, &entry.Type, &entry.Amount, &entry.Reason, &entry.Reference, &entry.ActingAdminID, &entry.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan wallet entry row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
