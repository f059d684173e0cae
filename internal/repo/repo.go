package repo

import (
	"github.com/creatorly/finops/internal/pg"
	auditrepo "github.com/creatorly/finops/internal/repo/audit-repo"
	orderrepo "github.com/creatorly/finops/internal/repo/order-repo"
	payoutrepo "github.com/creatorly/finops/internal/repo/payout-repo"
	transactionrepo "github.com/creatorly/finops/internal/repo/transaction-repo"
	walletrepo "github.com/creatorly/finops/internal/repo/wallet-repo"
	"github.com/creatorly/finops/internal/service/auditservice"
	"github.com/creatorly/finops/internal/service/escrowservice"
	"github.com/creatorly/finops/internal/service/payoutservice"
	"github.com/creatorly/finops/internal/service/refundservice"
	"github.com/creatorly/finops/internal/service/walletservice"
)

type Repositories struct {
	WalletRepo      walletservice.Repo
	PayoutRepo      payoutservice.Repo
	TransactionRepo refundservice.TransactionRepo
	OrderRepo       escrowservice.OrderRepo
	AuditRepo       auditservice.Repo
}

func New(conn pg.Database) *Repositories {
	walletRepo := walletrepo.New(conn)
	payoutRepo := payoutrepo.New(conn)
	transactionRepo := transactionrepo.New(conn)
	orderRepo := orderrepo.New(conn)
	auditRepo := auditrepo.New(conn)

	return &Repositories{
		WalletRepo:      walletRepo,
		PayoutRepo:      payoutRepo,
		TransactionRepo: transactionRepo,
		OrderRepo:       orderRepo,
		AuditRepo:       auditRepo,
	}
}
