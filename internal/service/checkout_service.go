package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bistro-pos/internal/cart"
	"bistro-pos/internal/config"
	"bistro-pos/internal/domain"
	"bistro-pos/internal/events"
	"bistro-pos/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxPaymentMethodLength = 50

// CheckoutRequest carries the caller's choices for one checkout
type CheckoutRequest struct {
	PaymentMethod  domain.PaymentMethod
	Status         domain.OrderStatus
	IdempotencyKey string
}

// CheckoutService turns an in-progress order into a stored PaymentRecord
type CheckoutService interface {
	Checkout(ctx context.Context, order *cart.Aggregator, req CheckoutRequest) (*domain.PaymentRecord, error)
	ServiceChargeRate() decimal.Decimal
}

type checkoutService struct {
	orders        repository.OrderRepository
	publisher     events.Publisher
	rate          decimal.Decimal
	timeout       time.Duration
	defaultMethod domain.PaymentMethod
	logger        *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	orders repository.OrderRepository,
	publisher events.Publisher,
	cfg config.CheckoutConfig,
	logger *zap.Logger,
) CheckoutService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &checkoutService{
		orders:        orders,
		publisher:     publisher,
		rate:          cfg.ServiceChargeRate,
		timeout:       cfg.Timeout,
		defaultMethod: domain.PaymentMethod(cfg.DefaultPaymentMethod),
		logger:        logger,
	}
}

func (s *checkoutService) ServiceChargeRate() decimal.Decimal {
	return s.rate
}

// Checkout writes the order's total as one PaymentRecord and clears the order
// on success. The caller must hold exclusive access to order.
func (s *checkoutService) Checkout(ctx context.Context, order *cart.Aggregator, req CheckoutRequest) (*domain.PaymentRecord, error) {
	if order.IsEmpty() {
		return nil, &CheckoutError{Kind: KindValidation, Err: ErrEmptyOrder}
	}

	record, err := s.buildRecord(order, req)
	if err != nil {
		return nil, &CheckoutError{Kind: KindValidation, Err: err}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	want := *record
	if err := s.orders.Create(storeCtx, record); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(storeCtx.Err(), context.DeadlineExceeded) {
			s.logger.Warn("Checkout timed out", zap.Duration("timeout", s.timeout), zap.Error(err))
			return nil, &CheckoutError{Kind: KindTimeout, Err: err}
		}
		s.logger.Error("Failed to store order", zap.Error(err))
		return nil, &CheckoutError{Kind: KindTransport, Err: err}
	}

	// a replayed key must describe the same order, otherwise this cart was never stored
	if !sameOrder(&want, record) {
		s.logger.Warn("Idempotency key reused for a different order",
			zap.String("order_id", record.ID.String()),
			zap.String("stored_total", record.TotalAmount.StringFixed(2)),
			zap.String("cart_total", want.TotalAmount.StringFixed(2)),
		)
		return nil, &CheckoutError{Kind: KindValidation, Err: ErrIdempotencyKeyReused}
	}

	itemCount := order.ItemCount()
	order.Clear()

	s.logger.Info("Order completed",
		zap.String("order_id", record.ID.String()),
		zap.String("total", record.TotalAmount.StringFixed(2)),
		zap.String("payment_method", string(record.PaymentMethod)),
	)

	if err := s.publisher.PublishOrderCompleted(ctx, events.NewOrderCompleted(record, itemCount)); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", record.ID.String()),
			zap.Error(err),
		)
	}

	return record, nil
}

func (s *checkoutService) buildRecord(order *cart.Aggregator, req CheckoutRequest) (*domain.PaymentRecord, error) {
	status := req.Status
	if status == "" {
		status = domain.OrderStatusCompleted
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	method := domain.PaymentMethod(strings.TrimSpace(string(req.PaymentMethod)))
	if method == "" {
		method = s.defaultMethod
	}
	if method == "" || len(method) > maxPaymentMethodLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	return &domain.PaymentRecord{
		TotalAmount:    order.Total(s.rate).Round(2),
		Status:         status,
		PaymentMethod:  method,
		IdempotencyKey: req.IdempotencyKey,
	}, nil
}

func sameOrder(want, stored *domain.PaymentRecord) bool {
	return want.TotalAmount.Equal(stored.TotalAmount) &&
		want.Status == stored.Status &&
		want.PaymentMethod == stored.PaymentMethod
}
