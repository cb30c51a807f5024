package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderFilter narrows an order listing. Zero values disable a condition.
type OrderFilter struct {
	Status domain.OrderStatus
	From   time.Time
	To     time.Time
	Limit  int
}

// DailySales is the stored order totals of one calendar day
type DailySales struct {
	Day     time.Time       `json:"day"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderRepository defines the interface for persisted order data access
type OrderRepository interface {
	Create(ctx context.Context, record *domain.PaymentRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.PaymentRecord, error)
	DailySales(ctx context.Context, status domain.OrderStatus, from, to time.Time) ([]DailySales, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a single order row. The store assigns the ID and creation
// time. When the record carries an idempotency key that was already used,
// no row is inserted and record is filled from the existing order.
func (r *orderRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	query := `
		INSERT INTO orders (total_amount, status, payment_method, idempotency_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (idempotency_key)
		DO UPDATE SET idempotency_key = EXCLUDED.idempotency_key
		RETURNING id, total_amount, status, payment_method, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		record.TotalAmount,
		record.Status,
		record.PaymentMethod,
		nullString(record.IdempotencyKey),
	).Scan(
		&record.ID,
		&record.TotalAmount,
		&record.Status,
		&record.PaymentMethod,
		&record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, total_amount, status, payment_method, idempotency_key, created_at
		FROM orders
		WHERE id = $1
	`

	record, err := scanPaymentRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return record, nil
}

// List retrieves orders newest first
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]*domain.PaymentRecord, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, filter.From)
		argIndex++
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argIndex))
		args = append(args, filter.To)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitClause := ""
	if filter.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT id, total_amount, status, payment_method, idempotency_key, created_at
		FROM orders
		%s
		ORDER BY created_at DESC
		%s
	`, whereClause, limitClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	records := []*domain.PaymentRecord{}
	for rows.Next() {
		record, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return records, nil
}

// DailySales sums order totals per UTC day in [from, to)
func (r *orderRepository) DailySales(ctx context.Context, status domain.OrderStatus, from, to time.Time) ([]DailySales, error) {
	query := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
		       COUNT(*),
		       COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, status, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	defer rows.Close()

	days := []DailySales{}
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Day, &d.Orders, &d.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		d.Day = time.Date(d.Day.Year(), d.Day.Month(), d.Day.Day(), 0, 0, 0, 0, time.UTC)
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily sales: %w", err)
	}

	return days, nil
}

func scanPaymentRecord(row rowScanner) (*domain.PaymentRecord, error) {
	record := &domain.PaymentRecord{}
	var key sql.NullString
	err := row.Scan(
		&record.ID,
		&record.TotalAmount,
		&record.Status,
		&record.PaymentMethod,
		&key,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.IdempotencyKey = key.String
	return record, nil
}
