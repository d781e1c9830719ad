package client

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"

	"github.com/harentsoaR/dentaclinic-api/internal/models"
)

// Collection caches one kind of entity for a front end. Every action moves
// through pending (Loading is set), then fulfilled (the result is merged
// into the cache) or rejected (Err is recorded and the cache is untouched).
// Actions are neither retried nor coalesced.
type Collection[T any] struct {
	key func(T) string

	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
}

func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{key: key}
}

func NewPatients() *Collection[models.Patient] {
	return NewCollection(func(p models.Patient) string { return p.ID.Hex() })
}

func NewAppointments() *Collection[models.Appointment] {
	return NewCollection(func(a models.Appointment) string { return a.ID.Hex() })
}

func NewBillings() *Collection[models.Billing] {
	return NewCollection(func(b models.Billing) string { return b.ID.Hex() })
}

func NewClinics() *Collection[models.Clinic] {
	return NewCollection(func(c models.Clinic) string { return c.ID.Hex() })
}

func NewDoctors() *Collection[models.Doctor] {
	return NewCollection(func(d models.Doctor) string { return d.ID.Hex() })
}

func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err is the message of the last rejected action, or "".
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) ByID(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Find(c.items, func(it T) bool { return c.key(it) == id })
}

func (c *Collection[T]) Filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Filter(c.items, func(it T, _ int) bool { return pred(it) })
}

func (c *Collection[T]) pending() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

// settle ends an action. merge runs with the lock held and only on success.
func (c *Collection[T]) settle(err error, merge func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = message(err)
		return
	}
	merge()
}

// Fetch replaces the cache with the loaded items.
func (c *Collection[T]) Fetch(ctx context.Context, load func(context.Context) ([]T, error)) error {
	c.pending()
	items, err := load(ctx)
	c.settle(err, func() { c.items = items })
	return err
}

// Create appends the created item.
func (c *Collection[T]) Create(ctx context.Context, create func(context.Context) (T, error)) (T, error) {
	c.pending()
	it, err := create(ctx)
	c.settle(err, func() { c.items = append(c.items, it) })
	return it, err
}

// Update replaces the cached item with the same id in place.
func (c *Collection[T]) Update(ctx context.Context, update func(context.Context) (T, error)) (T, error) {
	c.pending()
	it, err := update(ctx)
	c.settle(err, func() {
		id := c.key(it)
		if _, i, ok := lo.FindIndexOf(c.items, func(x T) bool { return c.key(x) == id }); ok {
			c.items[i] = it
		}
	})
	return it, err
}

// Delete drops the item with id once remove succeeds.
func (c *Collection[T]) Delete(ctx context.Context, id string, remove func(context.Context) error) error {
	c.pending()
	err := remove(ctx)
	c.settle(err, func() {
		c.items = lo.Reject(c.items, func(x T, _ int) bool { return c.key(x) == id })
	})
	return err
}

func message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
