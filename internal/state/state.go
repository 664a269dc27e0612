// Package state loads and saves the application's top-level collections as
// JSON blobs in a storage.Store.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/storage"
)

// Keys under which each collection is stored.
const (
	KeyUser         = "menufacil-user"
	KeySubscription = "menufacil-subscription"
	KeyUsers        = "menufacil-users-db"
	KeyIngredients  = "menufacil-ingredients"
	KeyShopping     = "menufacil-shopping"
	KeyPlan         = "menufacil-plan"
	KeyProfile      = "menufacil-profile"
)

// Collection is a typed view of one key. Load falls back to a default
// value when nothing has been stored yet.
type Collection[T any] struct {
	store storage.Store
	key   string
	def   func() T
}

// NewCollection binds key in store to values of type T. def produces the
// value returned when the key is absent.
func NewCollection[T any](store storage.Store, key string, def func() T) *Collection[T] {
	return &Collection[T]{store: store, key: key, def: def}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored value and true, or the default and false when
// the key has never been set. Undecodable content is returned as an error.
func (c *Collection[T]) Load(ctx context.Context) (T, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return c.def(), false, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !ok {
		return c.def(), false, nil
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return c.def(), false, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return v, true, nil
}

// Save replaces the stored value.
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// Clear removes the stored value so the next Load returns the default.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("clear %s: %w", c.key, err)
	}
	return nil
}

// Store groups every collection the application persists.
type Store struct {
	Ingredients  *Collection[[]models.Ingredient]
	Shopping     *Collection[[]models.ShoppingItem]
	Plan         *Collection[[]models.Recipe]
	Profile      *Collection[*models.UserProfile]
	User         *Collection[*models.User]
	Subscription *Collection[*models.Subscription]
	Users        *Collection[models.Registry]
}

// New wires all collections to s.
func New(s storage.Store) *Store {
	return &Store{
		Ingredients:  NewCollection(s, KeyIngredients, func() []models.Ingredient { return []models.Ingredient{} }),
		Shopping:     NewCollection(s, KeyShopping, func() []models.ShoppingItem { return []models.ShoppingItem{} }),
		Plan:         NewCollection(s, KeyPlan, func() []models.Recipe { return []models.Recipe{} }),
		Profile:      NewCollection(s, KeyProfile, func() *models.UserProfile { return nil }),
		User:         NewCollection(s, KeyUser, func() *models.User { return nil }),
		Subscription: NewCollection(s, KeySubscription, func() *models.Subscription { return nil }),
		Users:        NewCollection(s, KeyUsers, func() models.Registry { return models.Registry{} }),
	}
}
