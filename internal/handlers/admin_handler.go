package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/models"
)

const createFailedMessage = "Failed to add product. Check the console for details."

// CatalogWriter is the catalog as the administrator sees it.
type CatalogWriter interface {
	CatalogReader
	Create(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id string) error
}

// AdminHandler serves sign-in and product management.
type AdminHandler struct {
	catalog CatalogWriter
	auth    auth.Service
	// reportWriteErrors surfaces rejected updates and deletes to the caller.
	// When false they are only logged, as the local change stays visible.
	reportWriteErrors bool
}

func NewAdminHandler(catalog CatalogWriter, svc auth.Service, reportWriteErrors bool) *AdminHandler {
	return &AdminHandler{
		catalog:           catalog,
		auth:              svc,
		reportWriteErrors: reportWriteErrors,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the administrator's credentials for a bearer token
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn().Str("email", req.Email).Msg("admin login rejected")
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Products())
}

// CreateProduct adds a product once the remote store has accepted it
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidProduct) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusBadGateway, createFailedMessage)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a product in full
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	product.ID = c.Param("id")

	if err := h.catalog.Update(c.Request.Context(), product); err != nil {
		if h.writeError(c, err, "failed to update product") {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if h.writeError(c, err, "failed to delete product") {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// writeError maps a failed update or delete to a response and reports whether
// one was written. A rejected remote write is swallowed unless the handler
// reports write errors.
func (h *AdminHandler) writeError(c *gin.Context, err error, msg string) bool {
	var werr *catalog.StoreWriteError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(c, http.StatusNotFound, "product not found")
	case errors.Is(err, catalog.ErrInvalidProduct):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &werr):
		if !h.reportWriteErrors {
			logger.Warn().Err(err).Str("product_id", werr.ID).Msg("store write failed, keeping local change")
			return false
		}
		respondError(c, http.StatusBadGateway, msg)
	default:
		respondError(c, http.StatusInternalServerError, msg)
	}
	return true
}
