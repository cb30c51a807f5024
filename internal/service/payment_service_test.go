package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededOrders(now time.Time) *mockOrderRepository {
	repo := &mockOrderRepository{}
	add := func(total string, status domain.OrderStatus, method domain.PaymentMethod, at time.Time) {
		repo.records = append(repo.records, &domain.PaymentRecord{
			ID:            uuid.New(),
			TotalAmount:   decimal.RequireFromString(total),
			Status:        status,
			PaymentMethod: method,
			CreatedAt:     at,
		})
	}
	add("10.00", domain.OrderStatusCompleted, domain.PaymentMethodCash, now.Add(-time.Hour))
	add("20.00", domain.OrderStatusCompleted, domain.PaymentMethodCard, now.Add(-2*time.Hour))
	add("5.00", domain.OrderStatusPending, domain.PaymentMethodEWallet, now.Add(-3*time.Hour))
	add("99.00", domain.OrderStatusCompleted, domain.PaymentMethodCard, now.AddDate(-1, 0, 0))
	return repo
}

func TestPaymentService_HistoryAllStatuses(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	svc := &paymentService{orders: seededOrders(now), now: func() time.Time { return now }}

	h, err := svc.History(context.Background(), PaymentQuery{Status: "ALL"})
	require.NoError(t, err)
	assert.Equal(t, 4, h.Summary.Count)
	assert.Equal(t, "134.00", h.Summary.TotalAmount.StringFixed(2))
	assert.Equal(t, "33.50", h.Summary.AverageAmount.StringFixed(2))
	assert.Equal(t, "10.00", h.Payments[0].TotalAmount.StringFixed(2), "newest first")
}

func TestPaymentService_SearchMatchesMethodAndID(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	repo := seededOrders(now)
	svc := &paymentService{orders: repo, now: func() time.Time { return now }}
	ctx := context.Background()

	h, err := svc.History(ctx, PaymentQuery{Search: "CARD"})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Summary.Count)

	id := repo.records[2].ID.String()
	h, err = svc.History(ctx, PaymentQuery{Search: strings.ToUpper(id[:8])})
	require.NoError(t, err)
	require.Len(t, h.Payments, 1)
	assert.Equal(t, repo.records[2].ID, h.Payments[0].ID)
}

func TestPaymentService_StatusAndPeriod(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	svc := &paymentService{orders: seededOrders(now), now: func() time.Time { return now }}
	ctx := context.Background()

	h, err := svc.History(ctx, PaymentQuery{Status: "completed", Period: PeriodYear})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Summary.Count)
	assert.Equal(t, "30.00", h.Summary.TotalAmount.StringFixed(2))

	h, err = svc.History(ctx, PaymentQuery{Status: "pending", Period: PeriodToday})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Summary.Count)

	_, err = svc.History(ctx, PaymentQuery{Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.History(ctx, PaymentQuery{Period: "decade"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPaymentService_EmptyHistory(t *testing.T) {
	svc := NewPaymentService(&mockOrderRepository{})

	h, err := svc.History(context.Background(), PaymentQuery{})
	require.NoError(t, err)
	assert.Empty(t, h.Payments)
	assert.True(t, h.Summary.AverageAmount.IsZero())
}

func TestPaymentService_StoreError(t *testing.T) {
	boom := errors.New("store down")
	svc := NewPaymentService(&mockOrderRepository{listErr: boom})

	_, err := svc.History(context.Background(), PaymentQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestPeriodStart(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)

	cases := map[Period]time.Time{
		PeriodToday: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		PeriodWeek:  time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		PeriodMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodYear:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodAll:   {},
	}
	for p, want := range cases {
		got, err := periodStart(p, now)
		require.NoError(t, err)
		assert.Equal(t, want, got, "period %q", p)
	}
}
