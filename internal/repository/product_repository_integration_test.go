package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/database"
	"storefront/internal/models"
)

const integrationCollection = "products"

// testDatabase connects to MONGO_URI, which must point at a replica set, and
// hands out a throwaway database dropped after the test.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}

	client, err := database.Connect(context.Background(), uri)
	require.NoError(t, err)

	db := client.Database("storefront_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestProductRepositoryAgainstMongo(t *testing.T) {
	db := testDatabase(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	snapshots := make(chan []models.Product, 64)
	unsubscribe, err := repo.Subscribe(ctx, integrationCollection, func(products []models.Product) {
		select {
		case snapshots <- products:
		default:
		}
	})
	if err != nil {
		t.Skipf("change streams unavailable, MONGO_URI must be a replica set: %v", err)
	}
	defer unsubscribe()

	waitFor := func(desc string, cond func([]models.Product) bool) []models.Product {
		t.Helper()
		timeout := time.After(10 * time.Second)
		for {
			select {
			case snapshot := <-snapshots:
				if cond(snapshot) {
					return snapshot
				}
			case <-timeout:
				require.FailNow(t, "no snapshot: "+desc)
			}
		}
	}

	waitFor("initial", func(p []models.Product) bool { return len(p) == 0 })

	previous := 59.99
	before := time.Now().Add(-time.Minute)
	id, err := repo.CreateDocument(ctx, integrationCollection, models.ProductDraft{
		Name:          "Red Shoe",
		Details:       []string{"leather"},
		CurrentPrice:  49.99,
		PreviousPrice: &previous,
		Category:      "Shoes",
	})
	require.NoError(t, err)

	created := waitFor("create", func(p []models.Product) bool { return len(p) == 1 })[0]
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "Red Shoe", created.Name)
	require.NotNil(t, created.PreviousPrice)
	assert.Equal(t, previous, *created.PreviousPrice)
	assert.True(t, created.CreatedAt.After(before), "created_at is assigned by the server")

	objID, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)
	var raw bson.M
	require.NoError(t, db.Collection(integrationCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&raw))
	assert.IsType(t, primitive.DateTime(0), raw["created_at"])
	assert.Equal(t, 49.99, raw["current_price"])

	edited := created
	edited.Name = "Crimson Shoe"
	edited.PreviousPrice = nil
	edited.CreatedAt = time.Time{}
	require.NoError(t, repo.UpdateDocument(ctx, integrationCollection, edited))

	updated := waitFor("update", func(p []models.Product) bool {
		return len(p) == 1 && p[0].Name == "Crimson Shoe"
	})[0]
	assert.Nil(t, updated.PreviousPrice, "a nil previous price is unset")
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "update leaves created_at alone")

	err = repo.UpdateDocument(ctx, integrationCollection, models.Product{ID: primitive.NewObjectID().Hex(), Name: "Ghost"})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, repo.DeleteDocument(ctx, integrationCollection, id))
	waitFor("delete", func(p []models.Product) bool { return len(p) == 0 })
	assert.NoError(t, repo.DeleteDocument(ctx, integrationCollection, id), "deleting twice is not an error")
}
