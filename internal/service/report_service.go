package service

import (
	"context"
	"fmt"
	"time"

	"bistro-pos/internal/domain"
	"bistro-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// SalesReport sums completed orders over a date range
type SalesReport struct {
	From              time.Time               `json:"from"`
	To                time.Time               `json:"to"`
	Days              []repository.DailySales `json:"days"`
	TotalRevenue      decimal.Decimal         `json:"total_revenue"`
	TotalOrders       int                     `json:"total_orders"`
	AverageOrderValue decimal.Decimal         `json:"average_order_value"`
}

type ReportService interface {
	Sales(ctx context.Context, from, to time.Time) (*SalesReport, error)
}

type reportService struct {
	orders repository.OrderRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(orders repository.OrderRepository) ReportService {
	return &reportService{orders: orders}
}

// Sales reports completed orders in [from, to)
func (s *reportService) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidRange)
	}

	days, err := s.orders.DailySales(ctx, domain.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:              from,
		To:                to,
		Days:              days,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, d := range days {
		report.TotalRevenue = report.TotalRevenue.Add(d.Revenue)
		report.TotalOrders += d.Orders
	}
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.
			Div(decimal.NewFromInt(int64(report.TotalOrders))).
			Round(2)
	}

	return report, nil
}
