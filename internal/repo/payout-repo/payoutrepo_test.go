package payoutrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/creatorly/finops/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	tests := []struct {
		name      string
		payout    *domain.Payout
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates payout",
			payout: &domain.Payout{
				UserID:         10,
				Amount:         3000,
				Currency:       "USD",
				Status:         domain.PayoutStatusPending,
				PaymentDetails: "4561261212345467",
				RequestedAt:    timeNow,
			},
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id"}).AddRow(int64(1))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payouts (user_id, amount, currency, status, payment_details, requested_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`)).
					WithArgs(int64(10), int64(3000), "USD", domain.PayoutStatusPending, "4561261212345467", timeNow).
					WillReturnRows(rows)
			},
			expectErr: false,
		},
		{
			name: "Database error",
			payout: &domain.Payout{
				UserID:         10,
				Amount:         3000,
				Currency:       "USD",
				Status:         domain.PayoutStatusPending,
				PaymentDetails: "4561261212345467",
				RequestedAt:    timeNow,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payouts (user_id, amount, currency, status, payment_details, requested_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`)).
					WithArgs(int64(10), int64(3000), "USD", domain.PayoutStatusPending, "4561261212345467", timeNow).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.payout)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), result.ID)
			}
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	selectQuery := `SELECT id, user_id, amount, currency, status, payment_details, provider_details, requested_at, reviewed_at, paid_at, reviewing_admin_id FROM payouts WHERE id = $1`

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Payout
	}{
		{
			name: "Valid payoutID returns payout",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "currency", "status", "payment_details", "provider_details", "requested_at", "reviewed_at", "paid_at", "reviewing_admin_id"}).
					AddRow(int64(1), int64(10), int64(3000), "USD", domain.PayoutStatusPending, "4561261212345467", (*string)(nil), timeNow, (*time.Time)(nil), (*time.Time)(nil), (*int64)(nil))
				mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
					WithArgs(int64(1)).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Payout{
				ID:             1,
				UserID:         10,
				Amount:         3000,
				Currency:       "USD",
				Status:         domain.PayoutStatusPending,
				PaymentDetails: "4561261212345467",
				RequestedAt:    timeNow,
			},
		},
		{
			name: "Non-existing payoutID returns nil",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
					WithArgs(int64(1)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
					WithArgs(int64(1)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByID(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_SumNonTerminalByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM payouts WHERE user_id = $1 AND status NOT IN ('paid', 'rejected')`

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    int64
	}{
		{
			name: "Open payouts summed",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(4500))
				mock.ExpectQuery(regexp.QuoteMeta(sumQuery)).
					WithArgs(int64(10)).
					WillReturnRows(rows)
			},
			expectErr: false,
			result:    4500,
		},
		{
			name: "No open payouts sums to zero",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(0))
				mock.ExpectQuery(regexp.QuoteMeta(sumQuery)).
					WithArgs(int64(10)).
					WillReturnRows(rows)
			},
			expectErr: false,
			result:    0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(sumQuery)).
					WithArgs(int64(10)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.SumNonTerminalByUserID(context.Background(), 10)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_TransitionStatus(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	updateQuery := `UPDATE payouts SET status = $1, reviewing_admin_id = $2, reviewed_at = $3 WHERE id = $4 AND status = ANY($5)`

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		applied   bool
	}{
		{
			name: "Pending payout approved",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
					WithArgs(domain.PayoutStatusApproved, int64(7), timeNow, int64(1), []string{domain.PayoutStatusPending}).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectErr: false,
			applied:   true,
		},
		{
			name: "Status moved on, no row matched",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
					WithArgs(domain.PayoutStatusApproved, int64(7), timeNow, int64(1), []string{domain.PayoutStatusPending}).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: false,
			applied:   false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
					WithArgs(domain.PayoutStatusApproved, int64(7), timeNow, int64(1), []string{domain.PayoutStatusPending}).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			applied:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			applied, err := repo.TransitionStatus(context.Background(), 1, []string{domain.PayoutStatusPending}, domain.PayoutStatusApproved, 7, timeNow)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestRepository_MarkPaid(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	updateQuery := `UPDATE payouts SET status = 'paid', reviewing_admin_id = $1, provider_details = $2, paid_at = $3 WHERE id = $4 AND status = 'processing'`

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		applied   bool
	}{
		{
			name: "Processing payout marked paid",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
					WithArgs(int64(7), "tx-provider-42", timeNow, int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectErr: false,
			applied:   true,
		},
		{
			name: "Payout not in processing",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
					WithArgs(int64(7), "tx-provider-42", timeNow, int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: false,
			applied:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			applied, err := repo.MarkPaid(context.Background(), 1, 7, "tx-provider-42", timeNow)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestRepository_FindByStatus(t *testing.T) {
	repo, mock := NewMock(t)
	timeNow := time.Now()

	selectQuery := `SELECT id, user_id, amount, currency, status, payment_details, provider_details, requested_at, reviewed_at, paid_at, reviewing_admin_id FROM payouts WHERE status = $1 ORDER BY requested_at ASC`

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    []domain.Payout
	}{
		{
			name: "Pending payouts returned oldest first",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "currency", "status", "payment_details", "provider_details", "requested_at", "reviewed_at", "paid_at", "reviewing_admin_id"}).
					AddRow(int64(1), int64(10), int64(3000), "USD", domain.PayoutStatusPending, "4561261212345467", (*string)(nil), timeNow, (*time.Time)(nil), (*time.Time)(nil), (*int64)(nil))
				mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
					WithArgs(domain.PayoutStatusPending).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: []domain.Payout{
				{
					ID:             1,
					UserID:         10,
					Amount:         3000,
					Currency:       "USD",
					Status:         domain.PayoutStatusPending,
					PaymentDetails: "4561261212345467",
					RequestedAt:    timeNow,
				},
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
					WithArgs(domain.PayoutStatusPending).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByStatus(context.Background(), domain.PayoutStatusPending)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}
