package catalog

import (
	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sampleNamespace keeps sample item ids stable across restarts
var sampleNamespace = uuid.MustParse("5b0d3c1e-8f4a-4b7e-9a52-3f1c2d7e6a90")

func sampleItem(name, price, category, image string, spicy, vegetarian bool) domain.CatalogItem {
	return domain.CatalogItem{
		ID:           uuid.NewSHA1(sampleNamespace, []byte(name)),
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Category:     category,
		ImageURL:     image,
		IsSpicy:      spicy,
		IsVegetarian: vegetarian,
	}
}

// SampleMenu returns the demo menu the register ships with
func SampleMenu() []domain.CatalogItem {
	return []domain.CatalogItem{
		sampleItem("CHICKEN WINGS", "20", domain.CategoryStarter,
			"https://images.unsplash.com/photo-1567620832903-9fc6debc209f?w=800&q=80", true, false),
		sampleItem("FRENCH FRIES", "5", domain.CategoryStarter,
			"https://images.unsplash.com/photo-1630384060421-cb20d0e0649d?w=800&q=80", false, true),
		sampleItem("SUMMER SALAD", "10", domain.CategoryStarter,
			"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800&q=80", false, true),
		sampleItem("CAESAR SALAD", "8.99", domain.CategoryStarter,
			"https://images.unsplash.com/photo-1550304943-4f24f54ddde9?w=800&q=80", false, false),
		sampleItem("BURGER DELUXE", "15", domain.CategoryMainCourse, "", false, false),
		sampleItem("SPICY CHICKEN BURGER", "14.50", domain.CategoryMainCourse, "", true, false),
		sampleItem("ICED TEA", "3", domain.CategoryDrinks, "", false, true),
		sampleItem("CHOCOLATE CAKE", "6.50", domain.CategoryDesserts, "", false, true),
	}
}
