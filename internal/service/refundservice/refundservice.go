package refundservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/notifier"
	"github.com/creatorly/finops/internal/pg"
	"github.com/creatorly/finops/pkg/metrics"
)

type TransactionRepo interface {
	GetByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	MarkRefunded(ctx context.Context, transactionID int64) (bool, error)
}

type WalletOps interface {
	GetWalletByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	LockWallet(ctx context.Context, walletID int64) (*domain.Wallet, error)
	PostEntry(ctx context.Context, walletID int64, entryType string, amount int64, reason string, actingAdminID *int64) (int64, error)
}

type AuditRepo interface {
	Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type Notifier interface {
	Enqueue(ctx context.Context, n notifier.Notification) error
}

type Service struct {
	txnRepo   TransactionRepo
	wallets   WalletOps
	auditRepo AuditRepo
	txManager pg.TXManager
	notify    Notifier
}

func New(txnRepo TransactionRepo, wallets WalletOps, auditRepo AuditRepo, txManager pg.TXManager, notify Notifier) *Service {
	return &Service{
		txnRepo:   txnRepo,
		wallets:   wallets,
		auditRepo: auditRepo,
		txManager: txManager,
		notify:    notify,
	}
}

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not refundable")
	ErrAlreadyRefunded     = errors.New("transaction already refunded")
	ErrBusy                = errors.New("wallet busy, retry later")
)

// Refund reverses a completed transaction. The payer gets the full amount
// back; the payee gives up the amount minus the platform fee already
// retained. Both entries, the status flip and the audit record commit
// together or not at all.
func (s *Service) Refund(ctx context.Context, transactionID, adminID int64, reason string) error {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		zap.L().Error("can't find transaction", zap.Error(err))
		return err
	}
	if txn == nil {
		return ErrTransactionNotFound
	}
	switch txn.Status {
	case domain.TransactionStatusCompleted:
	case domain.TransactionStatusRefunded:
		return ErrAlreadyRefunded
	default:
		return ErrInvalidState
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		payerWallet, err := s.wallets.GetWalletByUserID(ctx, txn.PayerID)
		if err != nil {
			return err
		}
		payeeWallet, err := s.wallets.GetWalletByUserID(ctx, txn.PayeeID)
		if err != nil {
			return err
		}
		if err := s.lockBoth(ctx, payerWallet.ID, payeeWallet.ID); err != nil {
			return err
		}

		// The guard below absorbs a refund committed between the read
		// above and this point.
		ok, err := s.txnRepo.MarkRefunded(ctx, transactionID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyRefunded
		}

		creditReason := fmt.Sprintf("refund of transaction #%d", transactionID)
		if _, err := s.wallets.PostEntry(ctx, payerWallet.ID, domain.EntryTypeCredit, txn.Amount, creditReason, &adminID); err != nil {
			return err
		}

		debit := txn.Amount - txn.PlatformFee
		if debit > 0 {
			debitReason := fmt.Sprintf("reversal of transaction #%d", transactionID)
			if _, err := s.wallets.PostEntry(ctx, payeeWallet.ID, domain.EntryTypeDebit, debit, debitReason, &adminID); err != nil {
				return err
			}
		}

		payload, _ := json.Marshal(map[string]any{
			"amount":       txn.Amount,
			"platform_fee": txn.PlatformFee,
			"payer_id":     txn.PayerID,
			"payee_id":     txn.PayeeID,
			"reason":       reason,
		})
		_, err = s.auditRepo.Create(ctx, &domain.AuditRecord{
			ActorAdminID: adminID,
			Action:       "transaction.refund",
			TargetEntity: "transaction",
			TargetID:     transactionID,
			Payload:      payload,
		})
		return err
	})
	metrics.ObserveOperation("transaction_refund", err)
	if pg.IsLockTimeout(err) {
		return ErrBusy
	}
	if err != nil {
		return err
	}

	s.dispatch(ctx, txn.PayerID, "refund.issued", transactionID)
	s.dispatch(ctx, txn.PayeeID, "refund.reversed", transactionID)
	return nil
}

// lockBoth acquires both wallet rows in ascending id order so that two
// concurrent refunds touching the same pair cannot deadlock.
func (s *Service) lockBoth(ctx context.Context, firstID, secondID int64) error {
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	if _, err := s.wallets.LockWallet(ctx, firstID); err != nil {
		return err
	}
	if firstID == secondID {
		return nil
	}
	_, err := s.wallets.LockWallet(ctx, secondID)
	return err
}

func (s *Service) dispatch(ctx context.Context, userID int64, kind string, transactionID int64) {
	err := s.notify.Enqueue(ctx, notifier.Notification{
		UserID: userID,
		Kind:   kind,
		Payload: map[string]any{
			"transaction_id": transactionID,
		},
	})
	if err != nil {
		zap.L().Warn("notification enqueue failed", zap.String("kind", kind), zap.Error(err))
	}
}
