package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Method names a MemoryRepository write for fault injection.
type Method string

const (
	MethodCreate Method = "create"
	MethodUpdate Method = "update"
	MethodDelete Method = "delete"
)

// MemoryRepository is an in-process remote catalog store with the same feed
// semantics as ProductRepository: an initial snapshot on subscribe and a full
// snapshot after every successful write. Snapshots are delivered synchronously
// and in write order; callbacks must not call back into the repository.
type MemoryRepository struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	failures    map[Method][]error
	now         func() time.Time
}

type memoryCollection struct {
	docs    []models.Product
	subs    map[int]func([]models.Product)
	nextSub int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		collections: make(map[string]*memoryCollection),
		failures:    make(map[Method][]error),
		now:         time.Now,
	}
}

// Seed stores products as-is, assigning ids and timestamps where missing
func (r *MemoryRepository) Seed(collection string, products ...models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.collection(collection)
	for _, p := range products {
		p = p.Clone()
		if p.ID == "" {
			p.ID = primitive.NewObjectID().Hex()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = r.now()
		}
		c.docs = append(c.docs, p)
	}
	r.publish(c)
}

// FailNext makes the next call of method return err instead of writing
func (r *MemoryRepository) FailNext(method Method, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[method] = append(r.failures[method], err)
}

// Documents returns a copy of what the store currently holds
func (r *MemoryRepository) Documents(collection string) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneAll(r.collection(collection).docs)
}

func (r *MemoryRepository) CreateDocument(ctx context.Context, collection string, draft models.ProductDraft) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.injected(ctx, MethodCreate); err != nil {
		return "", err
	}

	c := r.collection(collection)
	p := draft.WithID(primitive.NewObjectID().Hex())
	p.CreatedAt = r.now()
	c.docs = append(c.docs, p)
	r.publish(c)
	return p.ID, nil
}

func (r *MemoryRepository) UpdateDocument(ctx context.Context, collection string, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.injected(ctx, MethodUpdate); err != nil {
		return err
	}

	c := r.collection(collection)
	for i := range c.docs {
		if c.docs[i].ID == product.ID {
			updated := product.Clone()
			updated.CreatedAt = c.docs[i].CreatedAt
			c.docs[i] = updated
			r.publish(c)
			return nil
		}
	}
	return ErrDocumentNotFound
}

func (r *MemoryRepository) DeleteDocument(ctx context.Context, collection string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.injected(ctx, MethodDelete); err != nil {
		return err
	}

	c := r.collection(collection)
	for i := range c.docs {
		if c.docs[i].ID == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			r.publish(c)
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context, collection string, onSnapshot func([]models.Product)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	c := r.collection(collection)
	id := c.nextSub
	c.nextSub++
	c.subs[id] = onSnapshot
	onSnapshot(models.CloneAll(c.docs))
	r.mu.Unlock()

	stop := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			r.mu.Lock()
			delete(c.subs, id)
			r.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()

	return unsubscribe, nil
}

func (r *MemoryRepository) collection(name string) *memoryCollection {
	c, ok := r.collections[name]
	if !ok {
		c = &memoryCollection{subs: make(map[int]func([]models.Product))}
		r.collections[name] = c
	}
	return c
}

func (r *MemoryRepository) injected(ctx context.Context, method Method) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	queue := r.failures[method]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	r.failures[method] = queue[1:]
	return err
}

// publish must be called with r.mu held
func (r *MemoryRepository) publish(c *memoryCollection) {
	for _, notify := range c.subs {
		notify(models.CloneAll(c.docs))
	}
}
