package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/creatorly/finops/internal/domain"
	"github.com/creatorly/finops/internal/dto"
	"github.com/creatorly/finops/internal/service/walletservice"
	"github.com/creatorly/finops/pkg/auth"
	"github.com/creatorly/finops/pkg/utils"
)

type Service interface {
	CreditDebit(ctx context.Context, walletID, amount int64, currency, reason, entryType string, actingAdminID int64) (int64, error)
	GetWallet(ctx context.Context, walletID int64) (*domain.Wallet, error)
	GetEntries(ctx context.Context, walletID int64) ([]domain.WalletEntry, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// Credit godoc
//
//	@Summary		Credit a wallet
//	@Description	Post a manual credit entry against the wallet. Reserved for administrators with the wallet:adjust capability.
//	@Tags			Wallets
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			walletID	path		int							true	"Wallet ID"
//	@Param			request		body		dto.WalletAdjustRequestDTO	true	"Adjustment payload"
//	@Success		200			{object}	dto.WalletAdjustResponseDTO	"Post-operation balance"
//	@Failure		400			{object}	utils.Response				"Invalid amount"
//	@Failure		404			{object}	utils.Response				"Wallet not found"
//	@Failure		409			{object}	utils.Response				"Currency mismatch or concurrent modification"
//	@Failure		500			{object}	utils.Response				"Internal server error"
//	@Router			/api/admin/wallets/{walletID}/credit [post]
func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.EntryTypeCredit)
}

// Debit godoc
//
//	@Summary		Debit a wallet
//	@Description	Post a manual debit entry against the wallet. Fails when the amount exceeds the current balance.
//	@Tags			Wallets
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			walletID	path		int							true	"Wallet ID"
//	@Param			request		body		dto.WalletAdjustRequestDTO	true	"Adjustment payload"
//	@Success		200			{object}	dto.WalletAdjustResponseDTO	"Post-operation balance"
//	@Failure		402			{object}	utils.Response				"Insufficient funds"
//	@Failure		409			{object}	utils.Response				"Currency mismatch or concurrent modification"
//	@Router			/api/admin/wallets/{walletID}/debit [post]
func (h *WalletHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.EntryTypeDebit)
}

func (h *WalletHandler) adjust(w http.ResponseWriter, r *http.Request, entryType string) {
	adminID := r.Context().Value(auth.UserIDKey).(int64)

	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}

	var req dto.WalletAdjustRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := h.walletService.CreditDebit(r.Context(), walletID, req.Amount, req.Currency, req.Reason, entryType, adminID)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, walletservice.ErrWalletNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, walletservice.ErrCurrencyMismatch):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, walletservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, walletservice.ErrConcurrentModification):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WalletAdjustResponseDTO{Balance: balance})
}

// GetWallet godoc
//
//	@Summary		Get a wallet
//	@Description	Retrieve a wallet with its current balance.
//	@Tags			Wallets
//	@Security		BearerAuth
//	@Produce		json
//	@Param			walletID	path		int						true	"Wallet ID"
//	@Success		200			{object}	dto.WalletResponseDTO	"Wallet"
//	@Failure		404			{object}	utils.Response			"Wallet not found"
//	@Router			/api/admin/wallets/{walletID} [get]
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}

	wallet, err := h.walletService.GetWallet(r.Context(), walletID)
	if err != nil {
		if errors.Is(err, walletservice.ErrWalletNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WalletResponseDTO{
		ID:       wallet.ID,
		UserID:   wallet.OwnerUserID,
		Currency: wallet.Currency,
		Balance:  wallet.Balance,
	})
}

// GetEntries godoc
//
//	@Summary		Get wallet ledger entries
//	@Description	List the immutable entries justifying the wallet balance, newest first.
//	@Tags			Wallets
//	@Security		BearerAuth
//	@Produce		json
//	@Param			walletID	path		int								true	"Wallet ID"
//	@Success		200			{array}		dto.WalletEntryResponseDTO	"Ledger entries"
//	@Success		204			{object}	utils.Response				"No entries"
//	@Router			/api/admin/wallets/{walletID}/entries [get]
func (h *WalletHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}

	entries, err := h.walletService.GetEntries(r.Context(), walletID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wallet entries")
		return
	}

	if len(entries) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Entries not found")
		return
	}

	response := make([]dto.WalletEntryResponseDTO, len(entries))
	for i, entry := range entries {
		response[i] = dto.WalletEntryResponseDTO{
			ID:        entry.ID,
			Type:      entry.Type,
			Amount:    entry.Amount,
			Reason:    entry.Reason,
			Reference: entry.Reference,
			CreatedAt: entry.CreatedAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
