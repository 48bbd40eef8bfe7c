package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/listing"
	"storefront/internal/models"
	"storefront/internal/search"
)

// CatalogReader is the read side of the live catalog.
type CatalogReader interface {
	Products() []models.Product
	Get(id string) (models.Product, error)
}

// ProductHandler serves the public storefront views.
type ProductHandler struct {
	catalog CatalogReader
}

func NewProductHandler(catalog CatalogReader) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts is the home listing, in catalog order
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products := h.catalog.Products()
	c.JSON(http.StatusOK, pageOf(products, requestedPage(c, len(products))))
}

// ListCategories sorts the whole catalog by name and groups each page by category
func (h *ProductHandler) ListCategories(c *gin.Context) {
	products := h.catalog.Products()
	order := listing.ParseOrder(c.Query("order"))

	sorted := listing.SortByName(products, order)
	page := requestedPage(c, len(sorted))
	items := listing.Paginate(sorted, page, listing.PageSize).Items

	c.JSON(http.StatusOK, categoriesView{
		Title:     "All Categories",
		Order:     order,
		NextOrder: order.Toggle(),
		Groups:    listing.GroupByCategory(products, items),
		Page:      pageOf(sorted, page),
	})
}

// Search runs the relevance matcher over the catalog
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	results := search.Match(query, h.catalog.Products())

	view := searchView{
		Title:        `Search Results for "` + query + `"`,
		Query:        query,
		TotalResults: len(results),
		ResultLabel:  resultLabel(len(results)),
		Page:         pageOf(results, requestedPage(c, len(results))),
	}
	if len(results) == 0 {
		view.Message = noSearchResults
	}
	c.JSON(http.StatusOK, view)
}

// GetProduct is the detail view. An unknown id renders the not-found view.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	product, err := h.catalog.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusOK, productNotFound)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get product")
		return
	}
	c.JSON(http.StatusOK, detailOf(product))
}
