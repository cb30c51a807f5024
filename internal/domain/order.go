package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultServiceChargeRate is the surcharge applied on top of the subtotal
var DefaultServiceChargeRate = decimal.RequireFromString("0.10")

// OrderStatus is the lifecycle state of a persisted order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is free-form; these are the values the register offers.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodEWallet PaymentMethod = "e-wallet"
)

// OrderLine is one catalog item plus a quantity within an in-progress order
type OrderLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderSnapshot is the derived view of an in-progress order
type OrderSnapshot struct {
	Lines         []OrderLine     `json:"lines"`
	ItemCount     int             `json:"item_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Total         decimal.Decimal `json:"total"`
}

// PaymentRecord is a completed checkout as stored by the persistence layer.
// Records are append-only.
type PaymentRecord struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         OrderStatus     `json:"status" db:"status"`
	PaymentMethod  PaymentMethod   `json:"payment_method" db:"payment_method"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" db:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
