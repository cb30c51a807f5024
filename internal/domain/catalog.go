package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllCategories is the category filter value that disables category matching
const AllCategories = "ALL"

// Categories used by the menu screens. Free-form categories are accepted too.
const (
	CategoryStarter    = "STARTER"
	CategoryMainCourse = "MAIN COURSE"
	CategoryDrinks     = "DRINKS"
	CategoryDesserts   = "DESSERTS"
)

// KnownCategories lists the menu categories in display order
var KnownCategories = []string{
	CategoryStarter,
	CategoryMainCourse,
	CategoryDrinks,
	CategoryDesserts,
}

// CatalogItem represents a sellable menu item
type CatalogItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Category     string          `json:"category" db:"category"`
	ImageURL     string          `json:"image_url,omitempty" db:"image_url"`
	IsSpicy      bool            `json:"is_spicy" db:"is_spicy"`
	IsVegetarian bool            `json:"is_vegetarian" db:"is_vegetarian"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// IsAllCategories reports whether category is the "all categories" sentinel.
// The screens use both "All" and "ALL", so the comparison ignores case.
func IsAllCategories(category string) bool {
	return category == "" || strings.EqualFold(category, AllCategories)
}
