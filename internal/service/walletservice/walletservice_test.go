package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockAuditRepo) {
	ctrl := gomock.NewController(t)
	walletRepo := NewMockRepo(ctrl)
	auditRepo := NewMockAuditRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
	service := New(walletRepo, auditRepo, txManager)
	defer ctrl.Finish()
	return service, walletRepo, auditRepo
}

func TestCreditDebit(t *testing.T) {
	service, walletRepo, auditRepo := NewMock(t)
	adminID := int64(7)
	tests := []struct {
		name            string
		walletID        int64
		amount          int64
		currency        string
		entryType       string
		prepareMock     func()
		expectedBalance int64
		expectedError   error
	}{
		{
			name:      "Successful credit",
			walletID:  1,
			amount:    500,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeCredit,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, OwnerUserID: 10, Currency: domain.CurrencyUSD, Balance: 1000, Version: 3}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil).Times(2)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1500), int64(3)).Return(true, nil)
				walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{}, nil)
				auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
			},
			expectedBalance: 1500,
			expectedError:   nil,
		},
		{
			name:      "Successful debit",
			walletID:  1,
			amount:    400,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeDebit,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, OwnerUserID: 10, Currency: domain.CurrencyUSD, Balance: 1000, Version: 4}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil).Times(2)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(600), int64(4)).Return(true, nil)
				walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{}, nil)
				auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)
			},
			expectedBalance: 600,
			expectedError:   nil,
		},
		{
			name:          "Unknown entry type",
			walletID:      1,
			amount:        500,
			currency:      domain.CurrencyUSD,
			entryType:     "transfer",
			prepareMock:   nil,
			expectedError: ErrUnknownEntryType,
		},
		{
			name:          "Zero amount",
			walletID:      1,
			amount:        0,
			currency:      domain.CurrencyUSD,
			entryType:     domain.EntryTypeCredit,
			prepareMock:   nil,
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			walletID:      1,
			amount:        -100,
			currency:      domain.CurrencyUSD,
			entryType:     domain.EntryTypeDebit,
			prepareMock:   nil,
			expectedError: ErrInvalidAmount,
		},
		{
			name:      "Wallet not found",
			walletID:  99,
			amount:    500,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeCredit,
			prepareMock: func() {
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)
			},
			expectedError: ErrWalletNotFound,
		},
		{
			name:      "Currency mismatch",
			walletID:  1,
			amount:    500,
			currency:  domain.CurrencyCoin,
			entryType: domain.EntryTypeCredit,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil)
			},
			expectedError: ErrCurrencyMismatch,
		},
		{
			name:      "Debit exceeding balance",
			walletID:  1,
			amount:    2000,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeDebit,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil).Times(2)
			},
			expectedError: ErrInsufficientFunds,
		},
		{
			name:      "Error getting wallet",
			walletID:  1,
			amount:    500,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeCredit,
			prepareMock: func() {
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name:      "Error writing audit record",
			walletID:  1,
			amount:    500,
			currency:  domain.CurrencyUSD,
			entryType: domain.EntryTypeCredit,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil).Times(2)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1500), int64(1)).Return(true, nil)
				walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{}, nil)
				auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("audit insert failed"))
			},
			expectedError: errors.New("audit insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			balance, err := service.CreditDebit(context.Background(), tt.walletID, tt.amount, tt.currency, "manual adjustment", tt.entryType, adminID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}
		})
	}
}

func TestPostEntry(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name            string
		entryType       string
		amount          int64
		prepareMock     func()
		expectedBalance int64
		expectedError   error
	}{
		{
			name:      "Retry succeeds after version conflict",
			entryType: domain.EntryTypeCredit,
			amount:    100,
			prepareMock: func() {
				stale := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				fresh := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1200, Version: 2}
				gomock.InOrder(
					walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(stale, nil),
					walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1100), int64(1)).Return(false, nil),
					walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(fresh, nil),
					walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1300), int64(2)).Return(true, nil),
					walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{}, nil),
				)
			},
			expectedBalance: 1300,
			expectedError:   nil,
		},
		{
			name:      "Retries exhausted",
			entryType: domain.EntryTypeCredit,
			amount:    100,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil).Times(3)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1100), int64(1)).Return(false, nil).Times(3)
			},
			expectedError: ErrConcurrentModification,
		},
		{
			name:      "Debit drains wallet to zero",
			entryType: domain.EntryTypeDebit,
			amount:    10000,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 10000, Version: 5}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(0), int64(5)).Return(true, nil)
				walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{}, nil)
			},
			expectedBalance: 0,
			expectedError:   nil,
		},
		{
			name:      "Debit against empty wallet",
			entryType: domain.EntryTypeDebit,
			amount:    1,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 0, Version: 6}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil)
			},
			expectedError: ErrInsufficientFunds,
		},
		{
			name:          "Invalid amount",
			entryType:     domain.EntryTypeCredit,
			amount:        0,
			prepareMock:   nil,
			expectedError: ErrInvalidAmount,
		},
		{
			name:      "Wallet not found",
			entryType: domain.EntryTypeCredit,
			amount:    100,
			prepareMock: func() {
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedError: ErrWalletNotFound,
		},
		{
			name:      "Error creating entry",
			entryType: domain.EntryTypeCredit,
			amount:    100,
			prepareMock: func() {
				wallet := &domain.Wallet{ID: 1, Currency: domain.CurrencyUSD, Balance: 1000, Version: 1}
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(wallet, nil)
				walletRepo.EXPECT().UpdateBalance(gomock.Any(), int64(1), int64(1100), int64(1)).Return(true, nil)
				walletRepo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			balance, err := service.PostEntry(context.Background(), 1, tt.entryType, tt.amount, "test entry", nil)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}
		})
	}
}

func TestLockWallet(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name           string
		walletID       int64
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name:     "Lock acquired",
			walletID: 1,
			prepareMock: func() {
				walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(&domain.Wallet{ID: 1, Balance: 500}, nil)
			},
			expectedWallet: &domain.Wallet{ID: 1, Balance: 500},
		},
		{
			name:     "Wallet not found",
			walletID: 99,
			prepareMock: func() {
				walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(99)).Return(nil, nil)
			},
			expectedError: ErrWalletNotFound,
		},
		{
			name:     "Lock timeout",
			walletID: 1,
			prepareMock: func() {
				walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(1)).Return(nil, errors.New("lock timeout"))
			},
			expectedError: errors.New("lock timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wallet, err := service.LockWallet(context.Background(), tt.walletID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedWallet, wallet)
			}
		})
	}
}

func TestCreateWallet(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name           string
		currency       string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name:     "Create USD wallet",
			currency: domain.CurrencyUSD,
			prepareMock: func() {
				walletRepo.EXPECT().Create(gomock.Any(), int64(10), domain.CurrencyUSD).Return(&domain.Wallet{ID: 1, OwnerUserID: 10, Currency: domain.CurrencyUSD}, nil)
			},
			expectedWallet: &domain.Wallet{ID: 1, OwnerUserID: 10, Currency: domain.CurrencyUSD},
		},
		{
			name:          "Unsupported currency",
			currency:      "EUR",
			prepareMock:   nil,
			expectedError: ErrCurrencyMismatch,
		},
		{
			name:     "Error creating wallet",
			currency: domain.CurrencyCoin,
			prepareMock: func() {
				walletRepo.EXPECT().Create(gomock.Any(), int64(10), domain.CurrencyCoin).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			wallet, err := service.CreateWallet(context.Background(), 10, tt.currency)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedWallet, wallet)
			}
		})
	}
}

func TestGetWallet(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name           string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name: "Retrieve wallet successfully",
			prepareMock: func() {
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&domain.Wallet{ID: 1, Balance: 300}, nil)
			},
			expectedWallet: &domain.Wallet{ID: 1, Balance: 300},
		},
		{
			name: "Wallet not found",
			prepareMock: func() {
				walletRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedError: ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wallet, err := service.GetWallet(context.Background(), 1)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedWallet, wallet)
			}
		})
	}
}

func TestGetWalletByUserID(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name           string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name: "Retrieve wallet successfully",
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), int64(10)).Return(&domain.Wallet{ID: 1, OwnerUserID: 10}, nil)
			},
			expectedWallet: &domain.Wallet{ID: 1, OwnerUserID: 10},
		},
		{
			name: "Wallet not found",
			prepareMock: func() {
				walletRepo.EXPECT().GetByUserID(gomock.Any(), int64(10)).Return(nil, nil)
			},
			expectedError: ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			wallet, err := service.GetWalletByUserID(context.Background(), 10)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedWallet, wallet)
			}
		})
	}
}

func TestGetEntries(t *testing.T) {
	service, walletRepo, _ := NewMock(t)
	tests := []struct {
		name            string
		prepareMock     func()
		expectedEntries []domain.WalletEntry
		expectedError   error
	}{
		{
			name: "Retrieve entries successfully",
			prepareMock: func() {
				walletRepo.EXPECT().GetEntriesByWalletID(gomock.Any(), int64(1)).Return([]domain.WalletEntry{
					{ID: 2, WalletID: 1, Type: domain.EntryTypeDebit, Amount: 40},
					{ID: 1, WalletID: 1, Type: domain.EntryTypeCredit, Amount: 100},
				}, nil)
			},
			expectedEntries: []domain.WalletEntry{
				{ID: 2, WalletID: 1, Type: domain.EntryTypeDebit, Amount: 40},
				{ID: 1, WalletID: 1, Type: domain.EntryTypeCredit, Amount: 100},
			},
		},
		{
			name: "Error retrieving entries",
			prepareMock: func() {
				walletRepo.EXPECT().GetEntriesByWalletID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			entries, err := service.GetEntries(context.Background(), 1)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedEntries, entries)
			}
		})
	}
}
