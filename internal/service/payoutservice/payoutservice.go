package payoutservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/notifier"
	"github.com/creatorly/finops/internal/pg"
	"github.com/creatorly/finops/pkg/metrics"
)

type Repo interface {
	Create(ctx context.Context, payout *domain.Payout) (*domain.Payout, error)
	GetByID(ctx context.Context, payoutID int64) (*domain.Payout, error)
	SumNonTerminalByUserID(ctx context.Context, userID int64) (int64, error)
	TransitionStatus(ctx context.Context, payoutID int64, fromStatuses []string, toStatus string, adminID int64, reviewedAt time.Time) (bool, error)
	MarkPaid(ctx context.Context, payoutID int64, adminID int64, providerDetails string, paidAt time.Time) (bool, error)
	FindByStatus(ctx context.Context, status string) ([]domain.Payout, error)
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
	payoutRepo Repo
	wallets    WalletOps
	auditRepo  AuditRepo
	txManager  pg.TXManager
	notify     Notifier
}

func New(payoutRepo Repo, wallets WalletOps, auditRepo AuditRepo, txManager pg.TXManager, notify Notifier) *Service {
	return &Service{
		payoutRepo: payoutRepo,
		wallets:    wallets,
		auditRepo:  auditRepo,
		txManager:  txManager,
		notify:     notify,
	}
}

var (
	ErrInvalidAmount     = errors.New("payout amount must be positive")
	ErrCurrencyMismatch  = errors.New("payout currency does not match wallet currency")
	ErrInsufficientFunds = errors.New("open payouts exceed wallet balance")
	ErrInvalidTransition = errors.New("payout status does not permit this transition")
	ErrPayoutNotFound    = errors.New("payout not found")
)

// Request creates a pending payout. The amount is reserved conservatively:
// the sum of the user's non-terminal payouts, this one included, may never
// exceed the wallet balance. The wallet row is locked while the reservation
// is summed so concurrent requests for the same user serialize.
func (s *Service) Request(ctx context.Context, userID, amount int64, currency, paymentDetails string) (*domain.Payout, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.wallets.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Currency != currency {
		return nil, ErrCurrencyMismatch
	}

	payout := &domain.Payout{
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		Status:         domain.PayoutStatusPending,
		PaymentDetails: paymentDetails,
		RequestedAt:    time.Now(),
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		locked, err := s.wallets.LockWallet(ctx, wallet.ID)
		if err != nil {
			return err
		}
		reserved, err := s.payoutRepo.SumNonTerminalByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if reserved+amount > locked.Balance {
			return ErrInsufficientFunds
		}
		_, err = s.payoutRepo.Create(ctx, payout)
		return err
	})
	metrics.ObserveOperation("payout_request", err)
	if err != nil {
		zap.L().Error("failed to create payout", zap.Error(err))
		return nil, err
	}

	s.dispatch(ctx, userID, "payout.requested", payout.ID)
	return payout, nil
}

// Approve moves pending -> approved after re-checking the reservation
// invariant under the wallet row lock inside the transaction.
func (s *Service) Approve(ctx context.Context, payoutID, adminID int64) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		payout, err := s.getPayout(ctx, payoutID)
		if err != nil {
			return err
		}

		ok, err := s.payoutRepo.TransitionStatus(ctx, payoutID,
			[]string{domain.PayoutStatusPending}, domain.PayoutStatusApproved, adminID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		wallet, err := s.wallets.GetWalletByUserID(ctx, payout.UserID)
		if err != nil {
			return err
		}
		locked, err := s.wallets.LockWallet(ctx, wallet.ID)
		if err != nil {
			return err
		}
		reserved, err := s.payoutRepo.SumNonTerminalByUserID(ctx, payout.UserID)
		if err != nil {
			return err
		}
		if reserved > locked.Balance {
			return ErrInsufficientFunds
		}

		return s.audit(ctx, adminID, "payout.approve", payoutID, map[string]any{
			"from": domain.PayoutStatusPending,
			"to":   domain.PayoutStatusApproved,
		})
	})
	metrics.ObserveOperation("payout_approve", err)
	if err != nil {
		return err
	}

	s.dispatchForPayout(ctx, payoutID, "payout.approved")
	return nil
}

// Process moves approved -> processing, marking the payout as handed to the
// payment provider.
func (s *Service) Process(ctx context.Context, payoutID, adminID int64) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.getPayout(ctx, payoutID); err != nil {
			return err
		}

		ok, err := s.payoutRepo.TransitionStatus(ctx, payoutID,
			[]string{domain.PayoutStatusApproved}, domain.PayoutStatusProcessing, adminID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		return s.audit(ctx, adminID, "payout.process", payoutID, map[string]any{
			"from": domain.PayoutStatusApproved,
			"to":   domain.PayoutStatusProcessing,
		})
	})
	metrics.ObserveOperation("payout_process", err)
	return err
}

// MarkPaid completes the payout: the wallet is debited only here, once the
// provider confirmed disbursement.
func (s *Service) MarkPaid(ctx context.Context, payoutID, adminID int64, providerDetails string) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		payout, err := s.getPayout(ctx, payoutID)
		if err != nil {
			return err
		}

		ok, err := s.payoutRepo.MarkPaid(ctx, payoutID, adminID, providerDetails, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		wallet, err := s.wallets.GetWalletByUserID(ctx, payout.UserID)
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("payout #%d disbursed", payoutID)
		if _, err := s.wallets.PostEntry(ctx, wallet.ID, domain.EntryTypeDebit, payout.Amount, reason, &adminID); err != nil {
			return err
		}

		return s.audit(ctx, adminID, "payout.paid", payoutID, map[string]any{
			"amount":           payout.Amount,
			"provider_details": providerDetails,
		})
	})
	metrics.ObserveOperation("payout_paid", err)
	if err != nil {
		return err
	}

	s.dispatchForPayout(ctx, payoutID, "payout.paid")
	return nil
}

// Reject closes a pending or approved payout. The wallet is never touched:
// no entry was posted before payment.
func (s *Service) Reject(ctx context.Context, payoutID, adminID int64, reason string) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.getPayout(ctx, payoutID); err != nil {
			return err
		}

		ok, err := s.payoutRepo.TransitionStatus(ctx, payoutID,
			[]string{domain.PayoutStatusPending, domain.PayoutStatusApproved},
			domain.PayoutStatusRejected, adminID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}

		return s.audit(ctx, adminID, "payout.reject", payoutID, map[string]any{
			"reason": reason,
		})
	})
	metrics.ObserveOperation("payout_reject", err)
	if err != nil {
		return err
	}

	s.dispatchForPayout(ctx, payoutID, "payout.rejected")
	return nil
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]domain.Payout, error) {
	payouts, err := s.payoutRepo.FindByStatus(ctx, status)
	if err != nil {
		zap.L().Error("failed to fetch payouts", zap.Error(err))
		return nil, err
	}
	return payouts, nil
}

func (s *Service) getPayout(ctx context.Context, payoutID int64) (*domain.Payout, error) {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		zap.L().Error("can't find payout", zap.Error(err))
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

func (s *Service) audit(ctx context.Context, adminID int64, action string, payoutID int64, snapshot map[string]any) error {
	payload, _ := json.Marshal(snapshot)
	_, err := s.auditRepo.Create(ctx, &domain.AuditRecord{
		ActorAdminID: adminID,
		Action:       action,
		TargetEntity: "payout",
		TargetID:     payoutID,
		Payload:      payload,
	})
	return err
}

func (s *Service) dispatchForPayout(ctx context.Context, payoutID int64, kind string) {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil || payout == nil {
		return
	}
	s.dispatch(ctx, payout.UserID, kind, payoutID)
}

func (s *Service) dispatch(ctx context.Context, userID int64, kind string, payoutID int64) {
	err := s.notify.Enqueue(ctx, notifier.Notification{
		UserID: userID,
		Kind:   kind,
		Payload: map[string]any{
			"payout_id": payoutID,
		},
	})
	if err != nil {
		zap.L().Warn("notification enqueue failed", zap.String("kind", kind), zap.Error(err))
	}
}
