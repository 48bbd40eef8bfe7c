// Package search implements the free-text product matcher shared by the
// search page and the chat assistant.
package search

import (
	"strings"

	"storefront/internal/models"
)

// Match returns the products whose searchable text contains any of the
// whitespace separated query tokens, case-insensitively, in collection order.
// A query without tokens matches nothing.
func Match(query string, products []models.Product) []models.Product {
	tokens := Tokens(query)
	if len(tokens) == 0 {
		return []models.Product{}
	}

	matched := make([]models.Product, 0)
	for _, p := range products {
		text := SearchableText(p)
		for _, token := range tokens {
			if strings.Contains(text, token) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}

// Tokens lower-cases the query and splits it on whitespace
func Tokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// SearchableText is the lower-cased text a product is matched against
func SearchableText(p models.Product) string {
	parts := make([]string, 0, 3+len(p.Details))
	parts = append(parts, p.Name, p.Description, p.Category)
	parts = append(parts, p.Details...)
	return strings.ToLower(strings.Join(parts, " "))
}
