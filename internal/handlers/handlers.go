package handlers

import (
	"net/http"

	_ "github.com/creatorly/finops/docs"
	audithandlers "github.com/creatorly/finops/internal/handlers/audit"
	marketplacehandlers "github.com/creatorly/finops/internal/handlers/marketplace"
	payouthandlers "github.com/creatorly/finops/internal/handlers/payouts"
	wallethandlers "github.com/creatorly/finops/internal/handlers/wallet"
	"github.com/creatorly/finops/internal/service"
	"github.com/creatorly/finops/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type WalletHandler interface {
	Credit(w http.ResponseWriter, r *http.Request)
	Debit(w http.ResponseWriter, r *http.Request)
	GetWallet(w http.ResponseWriter, r *http.Request)
	GetEntries(w http.ResponseWriter, r *http.Request)
}

type PayoutHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type MarketplaceHandler interface {
	Refund(w http.ResponseWriter, r *http.Request)
	Release(w http.ResponseWriter, r *http.Request)
}

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	WalletHandler      WalletHandler
	PayoutHandler      PayoutHandler
	MarketplaceHandler MarketplaceHandler
	AuditHandler       AuditHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		WalletHandler:      wallethandlers.New(s.WalletService),
		PayoutHandler:      payouthandlers.New(s.PayoutService),
		MarketplaceHandler: marketplacehandlers.New(s.RefundService, s.EscrowService),
		AuditHandler:       audithandlers.New(s.AuditService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/user", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Post("/payouts", h.PayoutHandler.Request)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Route("/wallets/{walletID}", func(r chi.Router) {
			r.With(auth.RequireCapability(auth.CapWalletAdjust)).Post("/credit", h.WalletHandler.Credit)
			r.With(auth.RequireCapability(auth.CapWalletAdjust)).Post("/debit", h.WalletHandler.Debit)
			r.With(auth.RequireCapability(auth.CapAuditRead)).Get("/", h.WalletHandler.GetWallet)
			r.With(auth.RequireCapability(auth.CapAuditRead)).Get("/entries", h.WalletHandler.GetEntries)
		})

		r.Route("/payouts", func(r chi.Router) {
			r.With(auth.RequireCapability(auth.CapPayoutReview)).Get("/", h.PayoutHandler.List)
			r.With(auth.RequireCapability(auth.CapPayoutReview)).Post("/{payoutID}/approve", h.PayoutHandler.Approve)
			r.With(auth.RequireCapability(auth.CapPayoutReview)).Post("/{payoutID}/reject", h.PayoutHandler.Reject)
			r.With(auth.RequireCapability(auth.CapPayoutDisburse)).Post("/{payoutID}/process", h.PayoutHandler.Process)
			r.With(auth.RequireCapability(auth.CapPayoutDisburse)).Post("/{payoutID}/paid", h.PayoutHandler.MarkPaid)
		})

		r.With(auth.RequireCapability(auth.CapRefundIssue)).
			Post("/transactions/{transactionID}/refund", h.MarketplaceHandler.Refund)
		r.With(auth.RequireCapability(auth.CapEscrowRelease)).
			Post("/orders/{orderID}/release", h.MarketplaceHandler.Release)
		r.With(auth.RequireCapability(auth.CapAuditRead)).
			Get("/audit", h.AuditHandler.List)
	})

	return r
}
