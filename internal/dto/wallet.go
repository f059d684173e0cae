package dto

import "time"

type WalletResponseDTO struct {
	ID       int64  `json:"id" example:"17"`
	UserID   int64  `json:"user_id" example:"42"`
	Currency string `json:"currency" example:"USD"`
	Balance  int64  `json:"balance" example:"150000"`
}

type WalletAdjustRequestDTO struct {
	Amount   int64  `json:"amount" example:"5000"`
	Currency string `json:"currency" example:"USD"`
	Reason   string `json:"reason" example:"manual correction"`
}

type WalletAdjustResponseDTO struct {
	Balance int64 `json:"balance" example:"155000"`
}

type WalletEntryResponseDTO struct {
	ID        int64     `json:"id" example:"301"`
	Type      string    `json:"type" example:"CREDIT"`
	Amount    int64     `json:"amount" example:"5000"`
	Reason    string    `json:"reason" example:"manual correction"`
	Reference string    `json:"reference" example:"01JG4YXAF1T6BKXN2MSHEDJ5QD"`
	CreatedAt time.Time `json:"created_at" example:"2025-12-09T16:09:57+03:00"`
}
