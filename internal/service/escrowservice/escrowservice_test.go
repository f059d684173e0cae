package escrowservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockOrderRepo, *MockWalletOps, *MockAuditRepo, *MockNotifier) {
	ctrl := gomock.NewController(t)
	orderRepo := NewMockOrderRepo(ctrl)
	wallets := NewMockWalletOps(ctrl)
	auditRepo := NewMockAuditRepo(ctrl)
	notify := NewMockNotifier(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	service := New(orderRepo, wallets, auditRepo, txManager, notify)
	defer ctrl.Finish()
	return service, orderRepo, wallets, auditRepo, notify
}

func TestRelease(t *testing.T) {
	service, orderRepo, wallets, auditRepo, notify := NewMock(t)
	adminID := int64(7)
	held := &domain.Order{
		ID:           1,
		BuyerID:      10,
		SellerID:     20,
		Amount:       1000,
		PlatformFee:  150,
		EscrowStatus: domain.EscrowStatusHeld,
	}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Seller credited net of platform fee",
			prepareMock: func() {
				orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(held, nil)
				orderRepo.EXPECT().MarkReleased(gomock.Any(), int64(1), adminID, gomock.Any()).Return(true, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5, OwnerUserID: 20}, nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(5), domain.EntryTypeCredit, int64(850), "escrow release for order #1", &adminID).Return(int64(850), nil)
				auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
				notify.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "Order not found",
			prepareMock: func() {
				orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name: "Already released",
			prepareMock: func() {
				released := *held
				released.EscrowStatus = domain.EscrowStatusReleased
				orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&released, nil)
			},
			expectedError: ErrInvalidState,
		},
		{
			name: "Release raced by a concurrent release",
			prepareMock: func() {
				orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(held, nil)
				orderRepo.EXPECT().MarkReleased(gomock.Any(), int64(1), adminID, gomock.Any()).Return(false, nil)
			},
			expectedError: ErrInvalidState,
		},
		{
			name: "Seller credit fails and rolls the flip back",
			prepareMock: func() {
				orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(held, nil)
				orderRepo.EXPECT().MarkReleased(gomock.Any(), int64(1), adminID, gomock.Any()).Return(true, nil)
				wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5}, nil)
				wallets.EXPECT().PostEntry(gomock.Any(), int64(5), domain.EntryTypeCredit, int64(850), "escrow release for order #1", &adminID).Return(int64(0), errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			err := service.Release(context.Background(), 1, adminID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReleaseFeeCoversWholeAmount(t *testing.T) {
	service, orderRepo, wallets, auditRepo, notify := NewMock(t)
	adminID := int64(7)

	// nothing is left for the seller; the escrow still flips and no
	// credit entry is posted
	orderRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&domain.Order{
		ID:           1,
		BuyerID:      10,
		SellerID:     20,
		Amount:       1000,
		PlatformFee:  1000,
		EscrowStatus: domain.EscrowStatusHeld,
	}, nil)
	orderRepo.EXPECT().MarkReleased(gomock.Any(), int64(1), adminID, gomock.Any()).Return(true, nil)
	wallets.EXPECT().GetWalletByUserID(gomock.Any(), int64(20)).Return(&domain.Wallet{ID: 5, OwnerUserID: 20}, nil)
	auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
	notify.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

	err := service.Release(context.Background(), 1, adminID)
	assert.NoError(t, err)
}
