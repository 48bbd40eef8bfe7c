package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// ErrDocumentNotFound is returned when a write targets an id the store does not hold.
var ErrDocumentNotFound = errors.New("document not found")

const snapshotTimeout = 10 * time.Second

// productDocument is the stored shape of a product.
type productDocument struct {
	models.ProductDraft `bson:",inline"`

	ID        primitive.ObjectID `bson:"_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d productDocument) product() models.Product {
	p := d.ProductDraft.WithID(d.ID.Hex())
	p.CreatedAt = d.CreatedAt
	return p
}

// ProductRepository is the MongoDB backed remote catalog store. Subscriptions
// are served from change streams, so the deployment must be a replica set.
type ProductRepository struct {
	db *mongo.Database
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		db: db,
	}
}

// CreateDocument inserts the draft under a fresh id; created_at is set by the server
func (r *ProductRepository) CreateDocument(ctx context.Context, collection string, draft models.ProductDraft) (string, error) {
	id := primitive.NewObjectID()

	update := bson.M{
		"$setOnInsert": draft,
		"$currentDate": bson.M{"created_at": true},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, opts); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id.Hex(), nil
}

// UpdateDocument overwrites every editable field of the product
func (r *ProductRepository) UpdateDocument(ctx context.Context, collection string, product models.Product) error {
	objID, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return fmt.Errorf("invalid product ID %q: %w", product.ID, ErrDocumentNotFound)
	}

	update := bson.M{"$set": product.Draft()}
	if product.PreviousPrice == nil {
		update["$unset"] = bson.M{"previous_price": ""}
	}

	result, err := r.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// DeleteDocument removes the product; deleting a missing id is not an error
func (r *ProductRepository) DeleteDocument(ctx context.Context, collection string, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID %q: %w", id, ErrDocumentNotFound)
	}
	if _, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Subscribe delivers the full collection now and again after every change
// event. The returned function stops the feed and waits for it to exit.
func (r *ProductRepository) Subscribe(ctx context.Context, collection string, onSnapshot func([]models.Product)) (func(), error) {
	coll := r.db.Collection(collection)
	ctx, cancel := context.WithCancel(ctx)

	// The stream is opened before the first read so no change can slip between them.
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open change stream: %w", err)
	}

	initial, err := r.readAll(ctx, coll)
	if err != nil {
		_ = stream.Close(context.Background())
		cancel()
		return nil, err
	}
	onSnapshot(initial)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			snapshot, err := r.readAll(ctx, coll)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error().Err(err).Str("collection", collection).Msg("snapshot read failed, feed stopped")
				}
				return
			}
			onSnapshot(snapshot)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Str("collection", collection).Msg("change stream failed, feed stopped")
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// readAll lists the whole collection in creation order
func (r *ProductRepository) readAll(ctx context.Context, coll *mongo.Collection) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}
