package repo

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/go-faster/errors"

	"github.com/simple-lms/console/pkg/serrors"
)

var (
	ErrNotFound    = serrors.NewError("REPO_NOT_FOUND", "entity not found", "Errors.NotFound")
	ErrDuplicateID = serrors.NewError("REPO_DUPLICATE_ID", "entity id already exists", "Errors.DuplicateID")
	ErrEmptyID     = serrors.NewError("REPO_EMPTY_ID", "entity id is empty", "Errors.EmptyID")
)

// Entity is anything stored in a Collection.
type Entity interface {
	EntityID() string
}

// Persister stores whole collection snapshots by name.
type Persister interface {
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	Save(ctx context.Context, collection string, items []json.RawMessage) error
}

// Repository is the read/write contract every entity repository offers.
// Writes return the new canonical collection.
type Repository[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) ([]T, error)
	Update(ctx context.Context, item T) ([]T, error)
	Delete(ctx context.Context, id string) ([]T, error)
	Replace(ctx context.Context, items []T) ([]T, error)
}

// Collection is an ordered, concurrency-safe set of entities keyed by id.
// Every write returns the new canonical snapshot so callers never re-read shared state.
type Collection[T Entity] struct {
	name      string
	mu        sync.RWMutex
	items     []T
	index     map[string]int
	persister Persister
}

// NewCollection returns an empty in-memory collection.
func NewCollection[T Entity](name string) *Collection[T] {
	return &Collection[T]{
		name:  name,
		index: make(map[string]int),
	}
}

// OpenCollection returns a collection backed by p, loaded with its current snapshot.
func OpenCollection[T Entity](ctx context.Context, name string, p Persister) (*Collection[T], error) {
	c := NewCollection[T](name)
	c.persister = p
	if p == nil {
		return c, nil
	}
	raw, err := p.Load(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "load collection %s", name)
	}
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, errors.Wrapf(err, "decode %s item", name)
		}
		items = append(items, item)
	}
	if err := c.setLocked(items); err != nil {
		return nil, err
	}
	return c, nil
}

var _ Repository[Entity] = (*Collection[Entity])(nil)

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items), nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) GetByID(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		var zero T
		return zero, serrors.Wrapf(ErrNotFound, "%s %q", c.name, id)
	}
	return c.items[i], nil
}

// Find returns items matching pred, in collection order.
func (c *Collection[T]) Find(_ context.Context, pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func (c *Collection[T]) Create(ctx context.Context, item T) ([]T, error) {
	id := item.EntityID()
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; ok {
		return nil, serrors.Wrapf(ErrDuplicateID, "%s %q", c.name, id)
	}
	next := append(slices.Clone(c.items), item)
	return c.commitLocked(ctx, next)
}

func (c *Collection[T]) Update(ctx context.Context, item T) ([]T, error) {
	id := item.EntityID()
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return nil, serrors.Wrapf(ErrNotFound, "%s %q", c.name, id)
	}
	next := slices.Clone(c.items)
	next[i] = item
	return c.commitLocked(ctx, next)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return nil, serrors.Wrapf(ErrNotFound, "%s %q", c.name, id)
	}
	next := slices.Delete(slices.Clone(c.items), i, i+1)
	return c.commitLocked(ctx, next)
}

// Replace swaps the whole collection; ids must be unique and non-empty.
func (c *Collection[T]) Replace(ctx context.Context, items []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked(ctx, slices.Clone(items))
}

func (c *Collection[T]) commitLocked(ctx context.Context, next []T) ([]T, error) {
	prevItems, prevIndex := c.items, c.index
	if err := c.setLocked(next); err != nil {
		return nil, err
	}
	if c.persister != nil {
		if err := c.saveLocked(ctx); err != nil {
			c.items, c.index = prevItems, prevIndex
			return nil, err
		}
	}
	return slices.Clone(c.items), nil
}

func (c *Collection[T]) setLocked(items []T) error {
	index := make(map[string]int, len(items))
	for i, it := range items {
		id := it.EntityID()
		if strings.TrimSpace(id) == "" {
			return ErrEmptyID
		}
		if _, dup := index[id]; dup {
			return serrors.Wrapf(ErrDuplicateID, "%s %q", c.name, id)
		}
		index[id] = i
	}
	c.items = items
	c.index = index
	return nil
}

func (c *Collection[T]) saveLocked(ctx context.Context) error {
	raw := make([]json.RawMessage, 0, len(c.items))
	for _, it := range c.items {
		b, err := json.Marshal(it)
		if err != nil {
			return errors.Wrapf(err, "encode %s item", c.name)
		}
		raw = append(raw, b)
	}
	if err := c.persister.Save(ctx, c.name, raw); err != nil {
		return errors.Wrapf(err, "save collection %s", c.name)
	}
	return nil
}
