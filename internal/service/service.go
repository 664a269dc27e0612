// Package service is the single entry point the presentation layers use:
// it loads the session and collections from the key-value store, runs the
// domain operations and saves the results.
//
// Calls are serialized so concurrent HTTP requests observe one writer.
package service

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/directory"
	"github.com/atinyakov/menufacil/internal/planner"
	"github.com/atinyakov/menufacil/internal/state"
	"github.com/atinyakov/menufacil/internal/storage"
)

var (
	// ErrNotLoggedIn is returned by operations that need a signed-in user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrIngredientLimit is returned when the free tier pantry is full.
	ErrIngredientLimit = errors.New("ingredient limit reached for current plan")
)

// Service implements every user-facing operation over a storage.Store.
type Service struct {
	mu sync.Mutex

	state    *state.Store
	sessions *directory.SessionStore
	dir      *directory.Directory
	catalog  *catalog.Catalog
	planner  *planner.Generator
	gateway  billing.Gateway
	now      func() time.Time
	log      *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGateway replaces the simulated payment gateway.
func WithGateway(g billing.Gateway) Option {
	return func(s *Service) { s.gateway = g }
}

// WithPlanner replaces the meal plan generator.
func WithPlanner(g *planner.Generator) Option {
	return func(s *Service) { s.planner = g }
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// NewPlanner returns a generator seeded with seed, or from the clock when
// seed is zero.
func NewPlanner(seed uint64, opts planner.Options) *planner.Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return planner.New(rand.New(rand.NewPCG(seed, seed>>1)), opts)
}

// New constructs a Service persisting into store.
func New(store storage.Store, log *zap.Logger, opts ...Option) *Service {
	st := state.New(store)
	s := &Service{
		state:    st,
		sessions: directory.NewSessionStore(st),
		catalog:  catalog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.planner == nil {
		s.planner = NewPlanner(0, planner.Options{})
	}
	if s.gateway == nil {
		s.gateway = billing.NewSimulatedGateway(log)
	}
	s.dir = directory.New(st.Users, log, directory.WithClock(s.now))
	return s
}

// State exposes the underlying collections, e.g. for the expiry watcher.
func (s *Service) State() *state.Store { return s.state }

// Catalog returns the static data the service works with.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }
