package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	ErrStoreUnavailable = errors.New("order store unavailable")
)

// BreakerSettings configures the circuit breaker around the order store
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32        // failures in a row before the breaker opens
	OpenTimeout         time.Duration // how long the breaker stays open before probing
}

type breakerOrderRepository struct {
	next OrderRepository
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerOrderRepository wraps next so that a run of store failures
// short-circuits further calls with ErrStoreUnavailable until the store has
// had time to recover.
func NewBreakerOrderRepository(next OrderRepository, settings BreakerSettings, logger *zap.Logger) OrderRepository {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Order store circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// caller-side outcomes say nothing about store health
			return err == nil ||
				errors.Is(err, ErrOrderNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &breakerOrderRepository{next: next, cb: cb}
}

func (r *breakerOrderRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	_, err := r.cb.Execute(func() (any, error) {
		return nil, r.next.Create(ctx, record)
	})
	return translateBreakerError(err)
}

func (r *breakerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	v, err := r.cb.Execute(func() (any, error) {
		return r.next.FindByID(ctx, id)
	})
	if err != nil {
		return nil, translateBreakerError(err)
	}
	return v.(*domain.PaymentRecord), nil
}

func (r *breakerOrderRepository) List(ctx context.Context, filter OrderFilter) ([]*domain.PaymentRecord, error) {
	v, err := r.cb.Execute(func() (any, error) {
		return r.next.List(ctx, filter)
	})
	if err != nil {
		return nil, translateBreakerError(err)
	}
	return v.([]*domain.PaymentRecord), nil
}

func (r *breakerOrderRepository) DailySales(ctx context.Context, status domain.OrderStatus, from, to time.Time) ([]DailySales, error) {
	v, err := r.cb.Execute(func() (any, error) {
		return r.next.DailySales(ctx, status, from, to)
	})
	if err != nil {
		return nil, translateBreakerError(err)
	}
	return v.([]DailySales), nil
}

func translateBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
