package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/creatorly/finops/internal/dto"
	"github.com/creatorly/finops/internal/service/escrowservice"
	"github.com/creatorly/finops/internal/service/refundservice"
	"github.com/creatorly/finops/internal/service/walletservice"
	"github.com/creatorly/finops/pkg/auth"
	"github.com/creatorly/finops/pkg/utils"
)

type RefundService interface {
	Refund(ctx context.Context, transactionID, adminID int64, reason string) error
}

type EscrowService interface {
	Release(ctx context.Context, orderID, adminID int64) error
}

type MarketplaceHandler struct {
	refundService RefundService
	escrowService EscrowService
}

func New(refundService RefundService, escrowService EscrowService) *MarketplaceHandler {
	return &MarketplaceHandler{
		refundService: refundService,
		escrowService: escrowService,
	}
}

// Refund godoc
//
//	@Summary		Refund a transaction
//	@Description	Reverse a completed transaction: the payer is credited in full, the payee is debited the amount minus the retained platform fee.
//	@Tags			Marketplace
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			transactionID	path		int						true	"Transaction ID"
//	@Param			request			body		dto.RefundRequestDTO	true	"Refund reason"
//	@Success		200				{string}	string					"Refunded"
//	@Failure		402				{object}	utils.Response			"Payee wallet cannot cover the reversal"
//	@Failure		409				{object}	utils.Response			"Not refundable or already refunded"
//	@Failure		503				{object}	utils.Response			"Wallets busy, retry"
//	@Router			/api/admin/transactions/{transactionID}/refund [post]
func (h *MarketplaceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.UserIDKey).(int64)

	transactionID, err := strconv.ParseInt(chi.URLParam(r, "transactionID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req dto.RefundRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.refundService.Refund(r.Context(), transactionID, adminID, req.Reason); err != nil {
		switch {
		case errors.Is(err, refundservice.ErrTransactionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, refundservice.ErrAlreadyRefunded), errors.Is(err, refundservice.ErrInvalidState):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, walletservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, refundservice.ErrBusy):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, "transaction refunded")
}

// Release godoc
//
//	@Summary		Release order escrow
//	@Description	Credit the seller with the order amount minus the platform fee. Release is one-way.
//	@Tags			Marketplace
//	@Security		BearerAuth
//	@Produce		json
//	@Param			orderID	path		int				true	"Order ID"
//	@Success		200		{string}	string			"Released"
//	@Failure		409		{object}	utils.Response	"Escrow not held"
//	@Router			/api/admin/orders/{orderID}/release [post]
func (h *MarketplaceHandler) Release(w http.ResponseWriter, r *http.Request) {
	adminID := r.Context().Value(auth.UserIDKey).(int64)

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.escrowService.Release(r.Context(), orderID, adminID); err != nil {
		switch {
		case errors.Is(err, escrowservice.ErrOrderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, escrowservice.ErrInvalidState):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, "escrow released")
}
