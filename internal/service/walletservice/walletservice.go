package walletservice

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
	"github.com/creatorly/finops/pkg/metrics"
)

// maxCASRetries bounds the optimistic-locking loop; past this the operation
// surfaces as retryable to the caller.
const maxCASRetries = 3

type Repo interface {
	GetByID(ctx context.Context, walletID int64) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, walletID int64) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	Create(ctx context.Context, userID int64, currency string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, walletID, newBalance, expectedVersion int64) (bool, error)
	CreateEntry(ctx context.Context, entry *domain.WalletEntry) (*domain.WalletEntry, error)
	GetEntriesByWalletID(ctx context.Context, walletID int64) ([]domain.WalletEntry, error)
}

type AuditRepo interface {
	Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type Service struct {
	walletRepo Repo
	auditRepo  AuditRepo
	txManager  pg.TXManager
}

func New(walletRepo Repo, auditRepo AuditRepo, txManager pg.TXManager) *Service {
	return &Service{
		walletRepo: walletRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

var (
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrCurrencyMismatch       = errors.New("currency does not match wallet currency")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrConcurrentModification = errors.New("wallet modified concurrently, retry")
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrUnknownEntryType       = errors.New("unknown entry type")
)

// CreditDebit posts a single ledger entry against the wallet and returns the
// post-operation balance. Entry insert, balance update and audit record
// commit as one transaction.
func (s *Service) CreditDebit(ctx context.Context, walletID, amount int64, currency, reason, entryType string, actingAdminID int64) (int64, error) {
	if entryType != domain.EntryTypeCredit && entryType != domain.EntryTypeDebit {
		return 0, ErrUnknownEntryType
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return 0, err
	}
	if wallet == nil {
		return 0, ErrWalletNotFound
	}
	if wallet.Currency != currency {
		return 0, ErrCurrencyMismatch
	}

	var balance int64
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err = s.PostEntry(ctx, walletID, entryType, amount, reason, &actingAdminID)
		if err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{
			"type":    entryType,
			"amount":  amount,
			"reason":  reason,
			"balance": balance,
		})
		_, err = s.auditRepo.Create(ctx, &domain.AuditRecord{
			ActorAdminID: actingAdminID,
			Action:       "wallet." + entryType,
			TargetEntity: "wallet",
			TargetID:     walletID,
			Payload:      payload,
		})
		return err
	})
	metrics.ObserveOperation("wallet_adjust", err)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// PostEntry applies one credit or debit with a bounded compare-and-swap loop.
// It joins the transaction already open on the context; every engine that
// moves money funnels through here, so the entry log and the balance can
// never diverge.
func (s *Service) PostEntry(ctx context.Context, walletID int64, entryType string, amount int64, reason string, actingAdminID *int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		for attempt := 0; attempt < maxCASRetries; attempt++ {
			wallet, err := s.walletRepo.GetByID(ctx, walletID)
			if err != nil {
				return err
			}
			if wallet == nil {
				return ErrWalletNotFound
			}

			newBalance := wallet.Balance
			switch entryType {
			case domain.EntryTypeCredit:
				newBalance += amount
			case domain.EntryTypeDebit:
				if amount > wallet.Balance {
					return ErrInsufficientFunds
				}
				newBalance -= amount
			default:
				return ErrUnknownEntryType
			}

			ok, err := s.walletRepo.UpdateBalance(ctx, walletID, newBalance, wallet.Version)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			entry := &domain.WalletEntry{
				WalletID:      walletID,
				Type:          entryType,
				Amount:        amount,
				Reason:        reason,
				Reference:     ulid.Make().String(),
				ActingAdminID: actingAdminID,
			}
			if _, err := s.walletRepo.CreateEntry(ctx, entry); err != nil {
				return err
			}
			balance = newBalance
			return nil
		}
		return ErrConcurrentModification
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// LockWallet reads the wallet with a row lock held until the enclosing
// transaction ends. Wallets must be locked in ascending id order.
func (s *Service) LockWallet(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, walletID)
	if err != nil {
		zap.L().Error("failed to lock wallet", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

// CreateWallet provisions a zero-balance wallet at user signup.
func (s *Service) CreateWallet(ctx context.Context, userID int64, currency string) (*domain.Wallet, error) {
	if currency != domain.CurrencyUSD && currency != domain.CurrencyCoin {
		return nil, ErrCurrencyMismatch
	}
	wallet, err := s.walletRepo.Create(ctx, userID, currency)
	if err != nil {
		zap.L().Error("failed to create wallet", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (s *Service) GetWallet(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

func (s *Service) GetWalletByUserID(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get wallet by user", zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

func (s *Service) GetEntries(ctx context.Context, walletID int64) ([]domain.WalletEntry, error) {
	entries, err := s.walletRepo.GetEntriesByWalletID(ctx, walletID)
	if err != nil {
		zap.L().Error("failed to fetch wallet entries", zap.Error(err))
		return nil, err
	}
	return entries, nil
}
