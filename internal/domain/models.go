package domain

import "time"

const (
	CurrencyUSD  = "USD"
	CurrencyCoin = "COIN"
)

const (
	EntryTypeCredit = "CREDIT"
	EntryTypeDebit  = "DEBIT"
)

const (
	PayoutStatusPending    = "pending"
	PayoutStatusApproved   = "approved"
	PayoutStatusProcessing = "processing"
	PayoutStatusPaid       = "paid"
	PayoutStatusRejected   = "rejected"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusRefunded  = "refunded"
	TransactionStatusFailed    = "failed"
)

const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
)

// PayoutTerminal reports whether a payout status admits no further transitions.
func PayoutTerminal(status string) bool {
	return status == PayoutStatusPaid || status == PayoutStatusRejected
}

type Wallet struct {
	ID          int64     `db:"id"`
	OwnerUserID int64     `db:"owner_user_id"`
	Currency    string    `db:"currency"`
	Balance     int64     `db:"balance"`
	Version     int64     `db:"version"`
	CreatedAt   time.Time `db:"created_at"`
}

// WalletEntry is immutable once written; the entry log is the sole
// justification for a wallet's balance.
type WalletEntry struct {
	ID            int64     `db:"id"`
	WalletID      int64     `db:"wallet_id"`
	Type          string    `db:"type"`
	Amount        int64     `db:"amount"`
	Reason        string    `db:"reason"`
	Reference     string    `db:"reference"`
	ActingAdminID *int64    `db:"acting_admin_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type Payout struct {
	ID               int64      `db:"id"`
	UserID           int64      `db:"user_id"`
	Amount           int64      `db:"amount"`
	Currency         string     `db:"currency"`
	Status           string     `db:"status"`
	PaymentDetails   string     `db:"payment_details"`
	ProviderDetails  *string    `db:"provider_details"`
	RequestedAt      time.Time  `db:"requested_at"`
	ReviewedAt       *time.Time `db:"reviewed_at"`
	PaidAt           *time.Time `db:"paid_at"`
	ReviewingAdminID *int64     `db:"reviewing_admin_id"`
}

type Transaction struct {
	ID             int64     `db:"id"`
	PayerID        int64     `db:"payer_id"`
	PayeeID        int64     `db:"payee_id"`
	Amount         int64     `db:"amount"`
	Status         string    `db:"status"`
	ProductID      *int64    `db:"product_id"`
	SubscriptionID *int64    `db:"subscription_id"`
	PlatformFee    int64     `db:"platform_fee"`
	OriginalPrice  int64     `db:"original_price"`
	PriceWithFee   int64     `db:"price_with_fee"`
	BalanceStatus  string    `db:"balance_status"`
	CreatedAt      time.Time `db:"created_at"`
}

type Order struct {
	ID               int64      `db:"id"`
	BuyerID          int64      `db:"buyer_id"`
	SellerID         int64      `db:"seller_id"`
	Amount           int64      `db:"amount"`
	PlatformFee      int64      `db:"platform_fee"`
	EscrowStatus     string     `db:"escrow_status"`
	ReleasedAt       *time.Time `db:"released_at"`
	ReleasingAdminID *int64     `db:"releasing_admin_id"`
	CreatedAt        time.Time  `db:"created_at"`
}

type AuditRecord struct {
	ID           int64     `db:"id"`
	ActorAdminID int64     `db:"actor_admin_id"`
	Action       string    `db:"action"`
	TargetEntity string    `db:"target_entity"`
	TargetID     int64     `db:"target_id"`
	Payload      []byte    `db:"payload"`
	CreatedAt    time.Time `db:"created_at"`
}
