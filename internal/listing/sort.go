package listing

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/models"
)

// Order is the direction of a name sort.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder defaults anything unrecognised to Ascending
func ParseOrder(s string) Order {
	if Order(s) == Descending {
		return Descending
	}
	return Ascending
}

// Toggle flips the sort direction
func (o Order) Toggle() Order {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// SortByName returns a copy of products stably sorted by locale-aware name comparison
func SortByName(products []models.Product, order Order) []models.Product {
	// Collators keep internal buffers and are not safe to share.
	col := collate.New(language.English)

	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, func(a, b models.Product) int {
		if order == Descending {
			return col.CompareString(b.Name, a.Name)
		}
		return col.CompareString(a.Name, b.Name)
	})
	return sorted
}

// CategoryGroup is the slice of a page that belongs to one category.
type CategoryGroup struct {
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

// GroupByCategory splits the items of a page by category. Categories appear in
// the order they are first seen in all; categories without items on the page
// are left out.
func GroupByCategory(all, page []models.Product) []CategoryGroup {
	var order []string
	seen := make(map[string]bool)
	for _, p := range all {
		if !seen[p.Category] {
			seen[p.Category] = true
			order = append(order, p.Category)
		}
	}

	byCategory := make(map[string][]models.Product)
	for _, p := range page {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for _, category := range order {
		if items := byCategory[category]; len(items) > 0 {
			groups = append(groups, CategoryGroup{Category: category, Products: items})
		}
	}
	return groups
}
