package escrowservice

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

type OrderRepo interface {
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	MarkReleased(ctx context.Context, orderID, adminID int64, releasedAt time.Time) (bool, error)
}

type WalletOps interface {
	GetWalletByUserID(ctx context.Context, userID int64) (*domain.Wallet, error)
	PostEntry(ctx context.Context, walletID int64, entryType string, amount int64, reason string, actingAdminID *int64) (int64, error)
}

type AuditRepo interface {
	Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
}

type Notifier interface {
	Enqueue(ctx context.Context, n notifier.Notification) error
}

type Service struct {
	orderRepo OrderRepo
	wallets   WalletOps
	auditRepo AuditRepo
	txManager pg.TXManager
	notify    Notifier
}

func New(orderRepo OrderRepo, wallets WalletOps, auditRepo AuditRepo, txManager pg.TXManager, notify Notifier) *Service {
	return &Service{
		orderRepo: orderRepo,
		wallets:   wallets,
		auditRepo: auditRepo,
		txManager: txManager,
		notify:    notify,
	}
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidState  = errors.New("order escrow is not held")
)

// Release credits the seller with the order amount minus the platform fee
// and flips the escrow to released. The flip is one-way: a released order
// never releases again.
func (s *Service) Release(ctx context.Context, orderID, adminID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.EscrowStatus != domain.EscrowStatusHeld {
		return ErrInvalidState
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.orderRepo.MarkReleased(ctx, orderID, adminID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		sellerWallet, err := s.wallets.GetWalletByUserID(ctx, order.SellerID)
		if err != nil {
			return err
		}

		// the fee may swallow the whole amount; the flip still happens
		credit := order.Amount - order.PlatformFee
		if credit > 0 {
			reason := fmt.Sprintf("escrow release for order #%d", orderID)
			if _, err := s.wallets.PostEntry(ctx, sellerWallet.ID, domain.EntryTypeCredit, credit, reason, &adminID); err != nil {
				return err
			}
		}

		payload, _ := json.Marshal(map[string]any{
			"amount":       order.Amount,
			"platform_fee": order.PlatformFee,
			"seller_id":    order.SellerID,
		})
		_, err = s.auditRepo.Create(ctx, &domain.AuditRecord{
			ActorAdminID: adminID,
			Action:       "order.escrow_release",
			TargetEntity: "order",
			TargetID:     orderID,
			Payload:      payload,
		})
		return err
	})
	metrics.ObserveOperation("escrow_release", err)
	if err != nil {
		return err
	}

	err = s.notify.Enqueue(ctx, notifier.Notification{
		UserID: order.SellerID,
		Kind:   "escrow.released",
		Payload: map[string]any{
			"order_id": orderID,
		},
	})
	if err != nil {
		zap.L().Warn("notification enqueue failed", zap.Error(err))
	}
	return nil
}
