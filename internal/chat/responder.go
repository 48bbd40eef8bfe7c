// Package chat builds the shopping assistant's replies and tracks the chat
// widget sessions that carry them.
package chat

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/models"
)

const (
	WelcomeText  = "👋 Hi there! I'm your friendly shopping assistant. How can I help you find the perfect product today?"
	GreetingText = "Hello! 😊 I'm here to help you find great products. What are you looking for today?"
	NoMatchText  = "I couldn't find any products matching your search. 😕 Could you try different keywords? Or would you like to browse our categories? I'm here to help!"

	// MaxLinks caps the product links attached to a match summary.
	MaxLinks = 3

	// Link targets, served by the storefront API.
	CategoriesPath = "/v1/categories"
	productsPath   = "/v1/products/"
)

var greetings = []string{"hi", "hello", "hey", "howdy"}

// Link is a navigable target offered under a reply.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Reply is the assistant's answer to one user message.
type Reply struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// Respond turns the matcher result for query into a reply. Greetings win over
// matches; each call is independent of any earlier message.
func Respond(query string, matches []models.Product) Reply {
	if IsGreeting(query) {
		return Reply{Text: GreetingText, Links: []Link{}}
	}

	if len(matches) == 0 {
		return Reply{
			Text:  NoMatchText,
			Links: []Link{{Text: "View All Categories", URL: CategoriesPath}},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Great news! 🎉 I found %d products that might interest you:\n\n", len(matches))

	categories := distinctCategories(matches)
	if len(categories) == 1 {
		fmt.Fprintf(&b, "These are all from our %s category.", categories[0])
	} else {
		fmt.Fprintf(&b, "I found options across these categories: %s.", strings.Join(categories, ", "))
	}
	b.WriteString("\n\nHere are some top picks for you:")

	top := matches[:min(len(matches), MaxLinks)]
	links := make([]Link, 0, len(top))
	for _, p := range top {
		links = append(links, Link{
			Text: fmt.Sprintf("%s - £%s", p.Name, FormatPrice(p.CurrentPrice)),
			URL:  ProductURL(p.ID),
		})
	}

	return Reply{Text: b.String(), Links: links}
}

// IsGreeting reports whether any greeting word occurs anywhere in the query
func IsGreeting(query string) bool {
	q := strings.ToLower(query)
	for _, g := range greetings {
		if strings.Contains(q, g) {
			return true
		}
	}
	return false
}

// FormatPrice prints the shortest decimal form of a price: 20, 19.99
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// ProductURL is the detail view path for a product id
func ProductURL(id string) string {
	return productsPath + url.PathEscape(id)
}

func distinctCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
