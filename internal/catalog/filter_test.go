package catalog

import (
	"strings"
	"testing"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name, category string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(1),
		Category: category,
	}
}

func appetizersAndSalads() []domain.CatalogItem {
	return []domain.CatalogItem{
		named("Chicken Wings", "Appetizers"),
		named("Caesar Salad", "Salads"),
		named("Grilled CHICKEN Salad", "Salads"),
		named("Mozzarella Sticks", "Appetizers"),
		named("Popcorn chicken", "Appetizers"),
	}
}

func TestFilter_ChickenAcrossAllCategories(t *testing.T) {
	items := appetizersAndSalads()

	result := Filter(items, "chicken", "All")

	require.Len(t, result, 3)
	assert.Equal(t, items[0].ID, result[0].ID)
	assert.Equal(t, items[2].ID, result[1].ID)
	assert.Equal(t, items[4].ID, result[2].ID)
}

func TestFilter_CategoryIsExact(t *testing.T) {
	items := appetizersAndSalads()

	result := Filter(items, "", "Salads")
	require.Len(t, result, 2)
	assert.Equal(t, "Caesar Salad", result[0].Name)

	assert.Empty(t, Filter(items, "", "salads"))
	assert.Len(t, Filter(items, "chicken", "Appetizers"), 2)
}

func TestFilter_EmptyQueryAndSentinelReturnEverything(t *testing.T) {
	items := appetizersAndSalads()

	for _, sentinel := range []string{"ALL", "All", "all", ""} {
		assert.Len(t, Filter(items, "", sentinel), len(items), sentinel)
	}
	assert.Len(t, Filter(items, "   ", "ALL"), len(items))
}

func genItems() gopter.Gen {
	return gen.SliceOfN(12, gopter.CombineGens(
		gen.AlphaString(),
		gen.OneConstOf("Appetizers", "Salads", "DRINKS"),
	).Map(func(vals []interface{}) domain.CatalogItem {
		return named(vals[0].(string), vals[1].(string))
	}))
}

func TestProperty_FilterIsStableSubsetMatchingQuery(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filter keeps catalog order and only matching items", prop.ForAll(
		func(items []domain.CatalogItem, query string, category string) bool {
			result := Filter(items, query, category)

			// every result matches
			for _, it := range result {
				if !strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) {
					return false
				}
				if !domain.IsAllCategories(category) && it.Category != category {
					return false
				}
			}

			// results appear in catalog order and nothing matching is dropped
			j := 0
			for _, it := range items {
				matches := strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) &&
					(domain.IsAllCategories(category) || it.Category == category)
				if !matches {
					continue
				}
				if j >= len(result) || result[j].ID != it.ID {
					return false
				}
				j++
			}
			return j == len(result)
		},
		genItems(),
		gen.AlphaString().Map(func(s string) string {
			if len(s) > 2 {
				return s[:2]
			}
			return s
		}),
		gen.OneConstOf("ALL", "Appetizers", "Salads", "DRINKS"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FilterIsCaseInsensitive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("upper and lower case queries give the same result", prop.ForAll(
		func(items []domain.CatalogItem, query string) bool {
			lower := Filter(items, strings.ToLower(query), "ALL")
			upper := Filter(items, strings.ToUpper(query), "ALL")
			if len(lower) != len(upper) {
				return false
			}
			for i := range lower {
				if lower[i].ID != upper[i].ID {
					return false
				}
			}
			return true
		},
		genItems(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCategories_DistinctInCatalogOrder(t *testing.T) {
	items := appetizersAndSalads()
	items = append(items, named("No category", ""))

	assert.Equal(t, []string{"Appetizers", "Salads"}, Categories(items))
	assert.Empty(t, Categories(nil))
}
