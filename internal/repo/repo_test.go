package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	auditrepo "github.com/creatorly/finops/internal/repo/audit-repo"
	orderrepo "github.com/creatorly/finops/internal/repo/order-repo"
	payoutrepo "github.com/creatorly/finops/internal/repo/payout-repo"
	transactionrepo "github.com/creatorly/finops/internal/repo/transaction-repo"
	walletrepo "github.com/creatorly/finops/internal/repo/wallet-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.WalletRepo)
	assert.NotNil(t, repo.PayoutRepo)
	assert.NotNil(t, repo.TransactionRepo)
	assert.NotNil(t, repo.OrderRepo)
	assert.NotNil(t, repo.AuditRepo)

	assert.IsType(t, &walletrepo.Repository{}, repo.WalletRepo)
	assert.IsType(t, &payoutrepo.Repository{}, repo.PayoutRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.IsType(t, &orderrepo.Repository{}, repo.OrderRepo)
	assert.IsType(t, &auditrepo.Repository{}, repo.AuditRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
