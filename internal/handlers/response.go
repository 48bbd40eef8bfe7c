package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/listing"
	"storefront/internal/models"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// requestedPage reads ?page=, falling back to the first page when absent or
// malformed, and clamps it to the listing's range.
func requestedPage(c *gin.Context, totalItems int) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	return listing.ClampPage(page, listing.TotalPages(totalItems, listing.PageSize))
}

// pageOf paginates products and projects them to listing cards
func pageOf(products []models.Product, page int) listing.Page[productCard] {
	p := listing.Paginate(products, page, listing.PageSize)
	cards := make([]productCard, 0, len(p.Items))
	for _, item := range p.Items {
		cards = append(cards, cardOf(item))
	}
	return listing.Page[productCard]{
		Items:       cards,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		HasPrevious: p.HasPrevious,
		HasNext:     p.HasNext,
		ShowPager:   p.ShowPager,
	}
}
