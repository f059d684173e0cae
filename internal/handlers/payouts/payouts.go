package payouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/dto"
	"github.com/creatorly/finops/internal/service/payoutservice"
	"github.com/creatorly/finops/internal/service/walletservice"
	"github.com/creatorly/finops/pkg/auth"
	"github.com/creatorly/finops/pkg/utils"
	"github.com/creatorly/finops/pkg/validate"
)

type Service interface {
	Request(ctx context.Context, userID, amount int64, currency, paymentDetails string) (*domain.Payout, error)
	Approve(ctx context.Context, payoutID, adminID int64) error
	Process(ctx context.Context, payoutID, adminID int64) error
	MarkPaid(ctx context.Context, payoutID, adminID int64, providerDetails string) error
	Reject(ctx context.Context, payoutID, adminID int64, reason string) error
	ListByStatus(ctx context.Context, status string) ([]domain.Payout, error)
}

type PayoutHandler struct {
	payoutService Service
}

func New(payoutService Service) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// Request godoc
//
//	@Summary		Request a payout
//	@Description	Create a pending payout request for the authenticated creator. Card payment details must pass a Luhn check.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PayoutRequestDTO	true	"Payout request payload"
//	@Success		201		{object}	dto.PayoutResponseDTO	"Created payout"
//	@Failure		402		{object}	utils.Response			"Open payouts exceed wallet balance"
//	@Failure		422		{object}	utils.Response			"Invalid payment details"
//	@Router			/api/user/payouts [post]
func (h *PayoutHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int64)

	var req dto.PayoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validate.IsLuhn(req.PaymentDetails) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid payment details")
		return
	}

	payout, err := h.payoutService.Request(r.Context(), userID, req.Amount, req.Currency, req.PaymentDetails)
	if err != nil {
		switch {
		case errors.Is(err, payoutservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payoutservice.ErrCurrencyMismatch):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, payoutservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, walletservice.ErrWalletNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.PayoutResponseDTO{
		ID:          payout.ID,
		UserID:      payout.UserID,
		Amount:      payout.Amount,
		Currency:    payout.Currency,
		Status:      payout.Status,
		RequestedAt: payout.RequestedAt,
	})
}

// Approve godoc
//
//	@Summary		Approve a payout
//	@Description	Move a pending payout to approved after re-checking the reservation invariant.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			payoutID	path		int				true	"Payout ID"
//	@Success		200			{string}	string			"Approved"
//	@Failure		402			{object}	utils.Response	"Open payouts exceed wallet balance"
//	@Failure		409			{object}	utils.Response	"Invalid transition"
//	@Router			/api/admin/payouts/{payoutID}/approve [post]
func (h *PayoutHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, payoutID, adminID int64) error {
		return h.payoutService.Approve(ctx, payoutID, adminID)
	}, "payout approved")
}

// Process godoc
//
//	@Summary		Start processing a payout
//	@Description	Move an approved payout to processing, marking it as handed to the payment provider.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			payoutID	path		int				true	"Payout ID"
//	@Success		200			{string}	string			"Processing"
//	@Failure		409			{object}	utils.Response	"Invalid transition"
//	@Router			/api/admin/payouts/{payoutID}/process [post]
func (h *PayoutHandler) Process(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, payoutID, adminID int64) error {
		return h.payoutService.Process(ctx, payoutID, adminID)
	}, "payout processing")
}

// MarkPaid godoc
//
//	@Summary		Mark a payout paid
//	@Description	Complete a processing payout: debit the wallet and store the provider reference.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			payoutID	path		int							true	"Payout ID"
//	@Param			request		body		dto.PayoutMarkPaidRequestDTO	true	"Provider details"
//	@Success		200			{string}	string						"Paid"
//	@Failure		402			{object}	utils.Response				"Insufficient funds"
//	@Failure		409			{object}	utils.Response				"Invalid transition"
//	@Router			/api/admin/payouts/{payoutID}/paid [post]
func (h *PayoutHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req dto.PayoutMarkPaidRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.transition(w, r, func(ctx context.Context, payoutID, adminID int64) error {
		return h.payoutService.MarkPaid(ctx, payoutID, adminID, req.ProviderDetails)
	}, "payout paid")
}

// Reject godoc
//
//	@Summary		Reject a payout
//	@Description	Close a pending or approved payout without touching the wallet.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			payoutID	path		int							true	"Payout ID"
//	@Param			request		body		dto.PayoutRejectRequestDTO	true	"Rejection reason"
//	@Success		200			{string}	string						"Rejected"
//	@Failure		409			{object}	utils.Response				"Invalid transition"
//	@Router			/api/admin/payouts/{payoutID}/reject [post]
func (h *PayoutHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.PayoutRejectRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.transition(w, r, func(ctx context.Context, payoutID, adminID int64) error {
		return h.payoutService.Reject(ctx, payoutID, adminID, req.Reason)
	}, "payout rejected")
}

// List godoc
//
//	@Summary		List payouts by status
//	@Description	Review queue for administrators, oldest first.
//	@Tags			Payouts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string					false	"Payout status"	default(pending)
//	@Success		200		{array}		dto.PayoutResponseDTO	"Payouts"
//	@Success		204		{object}	utils.Response			"No payouts"
//	@Router			/api/admin/payouts [get]
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = domain.PayoutStatusPending
	}

	payouts, err := h.payoutService.ListByStatus(r.Context(), status)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payouts")
		return
	}

	if len(payouts) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Payouts not found")
		return
	}

	response := make([]dto.PayoutResponseDTO, len(payouts))
	for i, payout := range payouts {
		response[i] = dto.PayoutResponseDTO{
			ID:          payout.ID,
			UserID:      payout.UserID,
			Amount:      payout.Amount,
			Currency:    payout.Currency,
			Status:      payout.Status,
			RequestedAt: payout.RequestedAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *PayoutHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, payoutID, adminID int64) error, okMessage string) {
	adminID := r.Context().Value(auth.UserIDKey).(int64)

	payoutID, err := strconv.ParseInt(chi.URLParam(r, "payoutID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payout id")
		return
	}

	if err := fn(r.Context(), payoutID, adminID); err != nil {
		switch {
		case errors.Is(err, payoutservice.ErrPayoutNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, payoutservice.ErrInvalidTransition):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, payoutservice.ErrInsufficientFunds), errors.Is(err, walletservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, walletservice.ErrConcurrentModification):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, okMessage)
}
