package refundservice

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockTransactionRepo, *MockWalletOps, *MockAuditRepo, *MockNotifier) {
	ctrl := gomock.NewController(t)
	txnRepo := NewMockTransactionRepo(ctrl)
	wallets := NewMockWalletOps(ctrl)
	auditRepo := NewMockAuditRepo(ctrl)
	notify := NewMockNotifier(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	service := New(txnRepo, wallets, auditRepo, txManager, notify)
	defer ctrl.Finish()
	return service, txnRepo, wallets, auditRepo, notify
}

func TestRefund(t *testing.T) {
	service, txnRepo, wallets, auditRepo, notify := NewMock(t)
	adminID := int64(7)
	txn := &domain.Transaction{
		ID:          1,
		PayerID:     10,
		PayeeID:     20,
		Amount:      2000,
		PlatformFee: 200,
		Status:      domain.TransactionStatusCompleted,
	}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Payer refunded in full, payee debited net of fee",
			prepareMock: func() {
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(txn, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 3, OwnerUserID: 10}, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5, OwnerUserID: 20}, nil)
				gomock.InOrder(
					wallets.EXPECT().LockWallet(gomock.Any(), int64(3)).Return(&domain.Wallet{ID: 3}, nil),
					wallets.EXPECT().LockWallet(gomock.Any(), int64(5)).Return(&domain.Wallet{ID: 5}, nil),
				)
				txnRepo.EXPECT().MarkRefunded(gomock.Any(), int64(1)).Return(true, nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(3), domain.EntryTypeCredit, int64(2000), "refund of transaction #1", &adminID).Return(int64(2000), nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(5), domain.EntryTypeDebit, int64(1800), "reversal of transaction #1", &adminID).Return(int64(0), nil)
				auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
				notify.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			expectedError: nil,
		},
		{
			name: "Transaction not found",
			prepareMock: func() {
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedError: ErrTransactionNotFound,
		},
		{
			name: "Already refunded",
			prepareMock: func() {
				refunded := *txn
				refunded.Status = domain.TransactionStatusRefunded
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&refunded, nil)
			},
			expectedError: ErrAlreadyRefunded,
		},
		{
			name: "Failed transaction is not refundable",
			prepareMock: func() {
				failed := *txn
				failed.Status = domain.TransactionStatusFailed
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&failed, nil)
			},
			expectedError: ErrInvalidState,
		},
		{
			name: "Refund raced by a concurrent refund",
			prepareMock: func() {
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(txn, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 3}, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5}, nil)
				wallets.EXPECT().LockWallet(gomock.Any(), int64(3)).Return(&domain.Wallet{ID: 3}, nil)
				wallets.EXPECT().LockWallet(gomock.Any(), int64(5)).Return(&domain.Wallet{ID: 5}, nil)
				txnRepo.EXPECT().MarkRefunded(gomock.Any(), int64(1)).Return(false, nil)
			},
			expectedError: ErrAlreadyRefunded,
		},
		{
			name: "Lock timeout surfaces as busy",
			prepareMock: func() {
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(txn, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 3}, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5}, nil)
				wallets.EXPECT().LockWallet(gomock.Any(), int64(3)).Return(nil, &pgconn.PgError{Code: "55P03"})
			},
			expectedError: ErrBusy,
		},
		{
			name: "Payee debit fails",
			prepareMock: func() {
				txnRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(txn, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 3}, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5}, nil)
				wallets.EXPECT().LockWallet(gomock.Any(), int64(3)).Return(&domain.Wallet{ID: 3}, nil)
				wallets.EXPECT().LockWallet(gomock.Any(), int64(5)).Return(&domain.Wallet{ID: 5}, nil)
				txnRepo.EXPECT().MarkRefunded(gomock.Any(), int64(1)).Return(true, nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(3), domain.EntryTypeCredit, int64(2000), "refund of transaction #1", &adminID).Return(int64(2000), nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(5), domain.EntryTypeDebit, int64(1800), "reversal of transaction #1", &adminID).Return(int64(0), errors.New("insufficient funds"))
			},
			expectedError: errors.New("insufficient funds"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Refund(context.Background(), 1, adminID, "buyer complaint")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefundFeeCoversWholeAmount(t *testing.T) {
	service, txnRepo, wallets, auditRepo, notify := NewMock(t)
	adminID := int64(7)
	txn := &domain.Transaction{
		ID:          2,
		PayerID:     10,
		PayeeID:     20,
		Amount:      100,
		PlatformFee: 100,
		Status:      domain.TransactionStatusCompleted,
	}

	txnRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(txn, nil)
	wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 3}, nil)
	wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5}, nil)
	wallets.EXPECT().LockWallet(gomock.Any(), int64(3)).Return(&domain.Wallet{ID: 3}, nil)
	wallets.EXPECT().LockWallet(gomock.Any(), int64(5)).Return(&domain.Wallet{ID: 5}, nil)
	txnRepo.EXPECT().MarkRefunded(gomock.Any(), int64(2)).Return(true, nil)
	// Only the payer credit: the payee received nothing, so nothing is reversed.
	wallets.EXPECT().PostEntry(gomock.Any(), int64(3), domain.EntryTypeCredit, int64(100), "refund of transaction #2", &adminID).Return(int64(100), nil)
	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
	notify.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	err := service.Refund(context.Background(), 2, adminID, "buyer complaint")
	assert.NoError(t, err)
}

func TestLockBothOrdering(t *testing.T) {
	service, _, wallets, _, _ := NewMock(t)

	// Locks are always taken in ascending wallet-id order.
	gomock.InOrder(
		wallets.EXPECT().LockWallet(gomock.Any(), int64(2)).Return(&domain.Wallet{ID: 2}, nil),
		wallets.EXPECT().LockWallet(gomock.Any(), int64(9)).Return(&domain.Wallet{ID: 9}, nil),
	)
	assert.NoError(t, service.lockBoth(context.Background(), 9, 2))

	// Same wallet on both sides locks once.
	wallets.EXPECT().LockWallet(gomock.Any(), int64(4)).Return(&domain.Wallet{ID: 4}, nil)
	assert.NoError(t, service.lockBoth(context.Background(), 4, 4))
}
