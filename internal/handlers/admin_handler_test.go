package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, email, password string) (string, error) {
	if email == "admin@example.com" && password == "s3cret" {
		return "signed-token", nil
	}
	return "", auth.ErrInvalidCredentials
}

func (stubAuth) Verify(token string) (string, error) {
	if token == "signed-token" {
		return "admin@example.com", nil
	}
	return "", auth.ErrInvalidToken
}

var errPermission = errors.New("permission denied")

func adminRouter(t *testing.T, revert bool, products ...models.Product) (*gin.Engine, *catalog.Store, *repository.MemoryRepository) {
	t.Helper()
	store, repo := liveCatalog(t, catalog.Options{RevertFailedWrites: revert}, products...)
	h := handlers.NewAdminHandler(store, stubAuth{}, revert)

	router := gin.New()
	router.POST("/login", h.Login)
	router.GET("/products", h.ListProducts)
	router.POST("/products", h.CreateProduct)
	router.PUT("/products/:id", h.UpdateProduct)
	router.DELETE("/products/:id", h.DeleteProduct)
	return router, store, repo
}

func TestAdminLogin(t *testing.T) {
	router, _, _ := adminRouter(t, true)

	w := do(t, router, http.MethodPost, "/login", gin.H{"email": "admin@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed-token", decode[map[string]string](t, w)["token"])

	w = do(t, router, http.MethodPost, "/login", gin.H{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, "/login", gin.H{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCreateProduct(t *testing.T) {
	draft := gin.H{
		"name":         "Red Shoe",
		"description":  "Comfortable",
		"details":      []string{"size 42"},
		"currentPrice": 49.99,
		"images":       []string{"https://images.unsplash.com/shoe"},
		"category":     "Shoes",
		"externalLink": "https://shop.example.com/shoe",
	}

	t.Run("accepted", func(t *testing.T) {
		router, store, repo := adminRouter(t, true)

		w := do(t, router, http.MethodPost, "/products", draft)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		created := decode[models.Product](t, w)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Red Shoe", created.Name)

		got, err := store.Get(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Shoes", got.Category)
		assert.Len(t, repo.Documents(catalog.DefaultCollection), 1)

		listed := decode[[]models.Product](t, do(t, router, http.MethodGet, "/products", nil))
		assert.Len(t, listed, 1)
	})

	t.Run("store rejects", func(t *testing.T) {
		router, store, repo := adminRouter(t, true)
		repo.FailNext(repository.MethodCreate, errPermission)

		w := do(t, router, http.MethodPost, "/products", draft)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "Failed to add product. Check the console for details.", decode[map[string]string](t, w)["error"])
		assert.Empty(t, store.Products())
	})

	t.Run("invalid body", func(t *testing.T) {
		router, _, _ := adminRouter(t, true)

		w := do(t, router, http.MethodPost, "/products", gin.H{"currentPrice": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, router, http.MethodPost, "/products", gin.H{"name": "x", "images": []string{"not a url"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminUpdateProduct(t *testing.T) {
	seed := models.Product{ID: "abc", Name: "Red Shoe", Category: "Shoes", CurrentPrice: 40}
	renamed := gin.H{"name": "Crimson Shoe", "category": "Shoes", "currentPrice": 35}

	t.Run("accepted", func(t *testing.T) {
		router, store, repo := adminRouter(t, true, seed)

		w := do(t, router, http.MethodPut, "/products/abc", renamed)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got, err := store.Get("abc")
		require.NoError(t, err)
		assert.Equal(t, "Crimson Shoe", got.Name)
		assert.Equal(t, "Crimson Shoe", repo.Documents(catalog.DefaultCollection)[0].Name)
	})

	t.Run("rejected write is reverted and reported", func(t *testing.T) {
		router, store, repo := adminRouter(t, true, seed)
		repo.FailNext(repository.MethodUpdate, errPermission)

		w := do(t, router, http.MethodPut, "/products/abc", renamed)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		got, err := store.Get("abc")
		require.NoError(t, err)
		assert.Equal(t, "Red Shoe", got.Name)
	})

	t.Run("rejected write is kept locally when not reverting", func(t *testing.T) {
		router, store, repo := adminRouter(t, false, seed)
		repo.FailNext(repository.MethodUpdate, errPermission)

		w := do(t, router, http.MethodPut, "/products/abc", renamed)
		assert.Equal(t, http.StatusOK, w.Code)

		got, err := store.Get("abc")
		require.NoError(t, err)
		assert.Equal(t, "Crimson Shoe", got.Name)
		assert.Equal(t, "Red Shoe", repo.Documents(catalog.DefaultCollection)[0].Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		router, _, _ := adminRouter(t, true, seed)
		w := do(t, router, http.MethodPut, "/products/nope", renamed)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminDeleteProduct(t *testing.T) {
	seed := []models.Product{
		{ID: "a", Name: "First"},
		{ID: "b", Name: "Second"},
	}

	t.Run("accepted", func(t *testing.T) {
		router, store, repo := adminRouter(t, true, seed...)

		w := do(t, router, http.MethodDelete, "/products/a", nil)
		require.Equal(t, http.StatusOK, w.Code)

		_, err := store.Get("a")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Len(t, repo.Documents(catalog.DefaultCollection), 1)
	})

	t.Run("rejected write restores the product in place", func(t *testing.T) {
		router, store, repo := adminRouter(t, true, seed...)
		repo.FailNext(repository.MethodDelete, errPermission)

		w := do(t, router, http.MethodDelete, "/products/a", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		products := store.Products()
		require.Len(t, products, 2)
		assert.Equal(t, "a", products[0].ID)
	})

	t.Run("rejected write is kept locally when not reverting", func(t *testing.T) {
		router, store, repo := adminRouter(t, false, seed...)
		repo.FailNext(repository.MethodDelete, errPermission)

		w := do(t, router, http.MethodDelete, "/products/a", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, store.Products(), 1)
		assert.Len(t, repo.Documents(catalog.DefaultCollection), 2)
	})

	t.Run("unknown id", func(t *testing.T) {
		router, _, _ := adminRouter(t, true, seed...)
		w := do(t, router, http.MethodDelete, "/products/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
