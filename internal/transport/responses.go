package transport

import (
	"time"

	"bistro-pos/internal/domain"

	"github.com/shopspring/decimal"
)

// money renders an amount the way the register displays it
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// CatalogItemResponse represents a menu entry
type CatalogItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url,omitempty"`
	IsSpicy      bool   `json:"is_spicy"`
	IsVegetarian bool   `json:"is_vegetarian"`
}

func toCatalogItemResponse(item domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		Price:        money(item.Price),
		Category:     item.Category,
		ImageURL:     item.ImageURL,
		IsSpicy:      item.IsSpicy,
		IsVegetarian: item.IsVegetarian,
	}
}

func toCatalogItemResponses(items []domain.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCatalogItemResponse(item))
	}
	return out
}

// PaymentRecordResponse represents a stored order
type PaymentRecordResponse struct {
	ID            string    `json:"id"`
	TotalAmount   string    `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPaymentRecordResponse(r *domain.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:            r.ID.String(),
		TotalAmount:   money(r.TotalAmount),
		Status:        string(r.Status),
		PaymentMethod: string(r.PaymentMethod),
		CreatedAt:     r.CreatedAt,
	}
}

// OrderLineResponse is one line of a cart
type OrderLineResponse struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartResponse is the derived view of an in-progress order
type CartResponse struct {
	ID                string              `json:"id"`
	Lines             []OrderLineResponse `json:"lines"`
	ItemCount         int                 `json:"item_count"`
	Subtotal          string              `json:"subtotal"`
	ServiceChargeRate string              `json:"service_charge_rate"`
	ServiceCharge     string              `json:"service_charge"`
	Total             string              `json:"total"`
}

func toCartResponse(id string, snap domain.OrderSnapshot, rate decimal.Decimal) CartResponse {
	lines := make([]OrderLineResponse, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		lines = append(lines, OrderLineResponse{
			ItemID:    l.Item.ID.String(),
			Name:      l.Item.Name,
			UnitPrice: money(l.Item.Price),
			Quantity:  l.Quantity,
			LineTotal: money(l.LineTotal()),
		})
	}
	return CartResponse{
		ID:                id,
		Lines:             lines,
		ItemCount:         snap.ItemCount,
		Subtotal:          money(snap.Subtotal),
		ServiceChargeRate: rate.String(),
		ServiceCharge:     money(snap.ServiceCharge),
		Total:             money(snap.Total),
	}
}
