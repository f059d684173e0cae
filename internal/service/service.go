package service

import (
	"github.com/creatorly/finops/internal/handlers/audit"
	"github.com/creatorly/finops/internal/handlers/marketplace"
	"github.com/creatorly/finops/internal/handlers/payouts"
	"github.com/creatorly/finops/internal/handlers/wallet"

	"github.com/creatorly/finops/internal/pg"
	"github.com/creatorly/finops/internal/repo"
	"github.com/creatorly/finops/internal/service/auditservice"
	"github.com/creatorly/finops/internal/service/escrowservice"
	"github.com/creatorly/finops/internal/service/payoutservice"
	"github.com/creatorly/finops/internal/service/refundservice"
	"github.com/creatorly/finops/internal/service/walletservice"
)

type Services struct {
	WalletService wallet.Service
	PayoutService payouts.Service
	RefundService marketplace.RefundService
	EscrowService marketplace.EscrowService
	AuditService  audit.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, notify payoutservice.Notifier) *Services {
	walletService := walletservice.New(repo.WalletRepo, repo.AuditRepo, txManager)
	payoutService := payoutservice.New(repo.PayoutRepo, walletService, repo.AuditRepo, txManager, notify)
	refundService := refundservice.New(repo.TransactionRepo, walletService, repo.AuditRepo, txManager, notify)
	escrowService := escrowservice.New(repo.OrderRepo, walletService, repo.AuditRepo, txManager, notify)
	auditService := auditservice.New(repo.AuditRepo)

	return &Services{
		WalletService: walletService,
		PayoutService: payoutService,
		RefundService: refundService,
		EscrowService: escrowService,
		AuditService:  auditService,
	}
}
