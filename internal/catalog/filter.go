// Package catalog supplies the sellable menu and the search facet over it.
package catalog

import (
	"strings"

	"bistro-pos/internal/domain"
)

// Filter returns the items whose name contains query (ignoring case) and
// whose category equals category. An empty query matches every name and
// the "all categories" sentinel matches every category. The result keeps
// catalog order.
func Filter(items []domain.CatalogItem, query, category string) []domain.CatalogItem {
	needle := strings.ToLower(strings.TrimSpace(query))
	anyCategory := domain.IsAllCategories(category)

	filtered := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		if !anyCategory && item.Category != category {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Categories returns the distinct categories of items in first-seen order
func Categories(items []domain.CatalogItem) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	return categories
}
