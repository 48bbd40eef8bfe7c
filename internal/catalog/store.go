// Package catalog keeps the in-process product collection in sync with the
// remote catalog store and applies administrator writes to both.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

//go:generate mockgen -destination=mocks/mock_remote_store.go -package=mocks storefront/internal/catalog RemoteStore

// RemoteStore is the durable document store the catalog mirrors.
type RemoteStore interface {
	CreateDocument(ctx context.Context, collection string, draft models.ProductDraft) (string, error)
	UpdateDocument(ctx context.Context, collection string, product models.Product) error
	DeleteDocument(ctx context.Context, collection string, id string) error
	Subscribe(ctx context.Context, collection string, onSnapshot func([]models.Product)) (func(), error)
}

const (
	DefaultCollection   = "products"
	defaultWriteTimeout = 5 * time.Second
)

type Options struct {
	Collection string
	// RevertFailedWrites rolls back an optimistic update or delete when the
	// remote write fails. When false the local change stays visible until the
	// next snapshot replaces it.
	RevertFailedWrites bool
	WriteTimeout       time.Duration
	Metrics            *metrics.Catalog
}

// Store is the application's single source of truth for the product
// collection. Every snapshot from the remote feed replaces it wholesale;
// writes are applied locally without waiting for that feed.
type Store struct {
	remote   RemoteStore
	opts     Options
	validate *validator.Validate

	mu         sync.RWMutex
	products   []models.Product
	generation uint64
	// touched holds the mutation that last changed each id locally.
	touched   map[string]uint64
	mutations uint64
}

func NewStore(remote RemoteStore, opts Options) *Store {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Store{
		remote:   remote,
		opts:     opts,
		validate: validator.New(),
		touched:  make(map[string]uint64),
	}
}

// Subscribe attaches the store to the remote change feed. Call the returned
// function, or cancel ctx, to detach.
func (s *Store) Subscribe(ctx context.Context) (func(), error) {
	unsubscribe, err := s.remote.Subscribe(ctx, s.opts.Collection, s.applySnapshot)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", s.opts.Collection, err)
	}
	logger.Info().Str("collection", s.opts.Collection).Msg("catalog subscription started")
	return unsubscribe, nil
}

func (s *Store) applySnapshot(products []models.Product) {
	next := models.CloneAll(products)

	s.mu.Lock()
	s.products = next
	s.generation++
	clear(s.touched)
	s.mu.Unlock()

	s.opts.Metrics.Snapshot(len(next))
	logger.Debug().Int("products", len(next)).Msg("catalog snapshot applied")
}

// Products returns a copy of the live collection in store order
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.products)
}

// Get looks a product up in the local collection
func (s *Store) Get(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	return models.Product{}, ErrNotFound
}

// Create writes the draft to the remote store and, once it is accepted,
// appends it locally under the id the store assigned.
func (s *Store) Create(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	if err := s.validate.Struct(draft); err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	wctx, cancel := s.writeContext(ctx)
	defer cancel()

	id, err := s.remote.CreateDocument(wctx, s.opts.Collection, draft)
	if err != nil {
		return models.Product{}, s.writeFailed(&StoreWriteError{Op: OpCreate, Err: err})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The feed may already have delivered the new document.
	if i := s.indexOf(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	created := draft.WithID(id)
	s.products = append(s.products, created.Clone())
	s.opts.Metrics.Size(len(s.products))
	return created, nil
}

// Update replaces the product locally, then overwrites it in the remote store.
func (s *Store) Update(ctx context.Context, product models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	s.mu.Lock()
	i := s.indexOf(product.ID)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	previous := s.products[i]
	product.CreatedAt = previous.CreatedAt
	s.products[i] = product.Clone()
	generation := s.generation
	prior, mutation := s.touch(product.ID)
	s.mu.Unlock()

	wctx, cancel := s.writeContext(ctx)
	defer cancel()

	if err := s.remote.UpdateDocument(wctx, s.opts.Collection, product); err != nil {
		werr := &StoreWriteError{Op: OpUpdate, ID: product.ID, Err: err}
		if s.opts.RevertFailedWrites {
			werr.Reverted = s.revert(product.ID, generation, prior, mutation, func() {
				if j := s.indexOf(product.ID); j >= 0 {
					s.products[j] = previous
				}
			})
		}
		return s.writeFailed(werr)
	}
	return nil
}

// Delete removes the product locally, then from the remote store.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	removed := s.products[i]
	var following string
	if i+1 < len(s.products) {
		following = s.products[i+1].ID
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	generation := s.generation
	prior, mutation := s.touch(id)
	s.opts.Metrics.Size(len(s.products))
	s.mu.Unlock()

	wctx, cancel := s.writeContext(ctx)
	defer cancel()

	if err := s.remote.DeleteDocument(wctx, s.opts.Collection, id); err != nil {
		werr := &StoreWriteError{Op: OpDelete, ID: id, Err: err}
		if s.opts.RevertFailedWrites {
			werr.Reverted = s.revert(id, generation, prior, mutation, func() {
				// Reinsert ahead of the product that followed it, which may have moved.
				at := s.indexOf(following)
				if following == "" || at < 0 {
					at = min(i, len(s.products))
				}
				s.products = append(s.products[:at:at], append([]models.Product{removed}, s.products[at:]...)...)
				s.opts.Metrics.Size(len(s.products))
			})
		}
		return s.writeFailed(werr)
	}
	return nil
}

// touch records a new local mutation of id and returns the one it supersedes.
// Must be called with s.mu held.
func (s *Store) touch(id string) (prior, mutation uint64) {
	s.mutations++
	prior = s.touched[id]
	s.touched[id] = s.mutations
	return prior, s.mutations
}

// revert runs undo under the lock while mutation is still the latest local
// change of id. A snapshot landing since then already reflects the store, and
// a later mutation of the same id owns the entry now.
func (s *Store) revert(id string, generation, prior, mutation uint64, undo func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation || s.touched[id] != mutation {
		return false
	}
	undo()
	if prior == 0 {
		delete(s.touched, id)
	} else {
		s.touched[id] = prior
	}
	return true
}

func (s *Store) writeFailed(err *StoreWriteError) error {
	s.opts.Metrics.WriteFailed(string(err.Op))
	if err.Reverted {
		s.opts.Metrics.Reverted(string(err.Op))
	}
	logger.Error().Err(err.Err).
		Str("op", string(err.Op)).
		Str("product_id", err.ID).
		Bool("reverted", err.Reverted).
		Msg("catalog store write failed")
	return err
}

// writeContext detaches the write from the caller's cancellation: once sent, a
// write runs to completion even if the request that started it is gone.
func (s *Store) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opts.WriteTimeout)
}

// indexOf must be called with s.mu held
func (s *Store) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
