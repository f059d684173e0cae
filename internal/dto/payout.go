package dto

import "time"

type PayoutRequestDTO struct {
	Amount         int64  `json:"amount" example:"250000"`
	Currency       string `json:"currency" example:"USD"`
	PaymentDetails string `json:"payment_details" example:"4561261212345467"`
}

type PayoutResponseDTO struct {
	ID          int64     `json:"id" example:"9"`
	UserID      int64     `json:"user_id" example:"42"`
	Amount      int64     `json:"amount" example:"250000"`
	Currency    string    `json:"currency" example:"USD"`
	Status      string    `json:"status" example:"pending"`
	RequestedAt time.Time `json:"requested_at" example:"2025-12-09T16:09:57+03:00"`
}

type PayoutRejectRequestDTO struct {
	Reason string `json:"reason" example:"payment details could not be verified"`
}

type PayoutMarkPaidRequestDTO struct {
	ProviderDetails string `json:"provider_details" example:"stripe_tr_1PqXYZ"`
}
