package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// liveCatalog seeds a memory store and returns a catalog subscribed to it
func liveCatalog(t *testing.T, opts catalog.Options, products ...models.Product) (*catalog.Store, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	repo.Seed(catalog.DefaultCollection, products...)

	store := catalog.NewStore(repo, opts)
	unsubscribe, err := store.Subscribe(context.Background())
	require.NoError(t, err)
	t.Cleanup(unsubscribe)
	return store, repo
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
