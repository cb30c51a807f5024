package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bistro-pos/internal/domain"
	"bistro-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// StatusAll disables the status filter of a payment query
const StatusAll = "ALL"

// Period bounds a payment query to a recent calendar window
type Period string

const (
	PeriodAll   Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// PaymentQuery filters the payment history
type PaymentQuery struct {
	Search string
	Status string
	Period Period
}

// PaymentSummary aggregates the records of one query
type PaymentSummary struct {
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

type PaymentHistory struct {
	Payments []*domain.PaymentRecord `json:"payments"`
	Summary  PaymentSummary          `json:"summary"`
}

// PaymentService reads stored orders for the payment history view
type PaymentService interface {
	History(ctx context.Context, q PaymentQuery) (*PaymentHistory, error)
}

type paymentService struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(orders repository.OrderRepository) PaymentService {
	return &paymentService{orders: orders, now: time.Now}
}

// History lists orders newest first. Search matches the order id or payment
// method case-insensitively; the status filter is skipped for StatusAll.
func (s *paymentService) History(ctx context.Context, q PaymentQuery) (*PaymentHistory, error) {
	filter := repository.OrderFilter{}

	status := strings.TrimSpace(q.Status)
	if status != "" && !strings.EqualFold(status, StatusAll) {
		st := domain.OrderStatus(strings.ToLower(status))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, q.Status)
		}
		filter.Status = st
	}

	from, err := periodStart(q.Period, s.now())
	if err != nil {
		return nil, err
	}
	filter.From = from

	records, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]*domain.PaymentRecord, 0, len(records))
	for _, r := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.ID.String()), needle) ||
			strings.Contains(strings.ToLower(string(r.PaymentMethod)), needle) {
			matched = append(matched, r)
		}
	}

	return &PaymentHistory{Payments: matched, Summary: summarize(matched)}, nil
}

func summarize(records []*domain.PaymentRecord) PaymentSummary {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalAmount)
	}

	avg := decimal.Zero
	if len(records) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(records)))).Round(2)
	}

	return PaymentSummary{Count: len(records), TotalAmount: total, AverageAmount: avg}
}

// periodStart returns the first instant of p relative to now in now's
// location; zero means unbounded
func periodStart(p Period, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch Period(strings.ToLower(string(p))) {
	case PeriodAll, "all":
		return time.Time{}, nil
	case PeriodToday:
		return today, nil
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7 // weeks start on Monday
		return today.AddDate(0, 0, -offset), nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
}
