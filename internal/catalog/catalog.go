// Package catalog holds the static data shipped with the binary: the
// recipe catalog, the weekly purchase suggestions and the subscription
// plans.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/atinyakov/menufacil/internal/models"
)

//go:embed data/*.json
var data embed.FS

// Priority ranks a weekly suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// SuggestedItem is a product recommended for the weekly purchase.
type SuggestedItem struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    float64  `json:"price"`
	Priority Priority `json:"priority"`
}

// SuggestionGroup is a titled block of suggestions.
type SuggestionGroup struct {
	Category string          `json:"category"`
	Items    []SuggestedItem `json:"items"`
}

// Plan describes a subscription tier offered for sale.
type Plan struct {
	ID       models.PlanTier `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Period   string          `json:"period"`
	Popular  bool            `json:"popular,omitempty"`
	Features []string        `json:"features"`
	// IngredientLimit caps the pantry size; zero means unlimited.
	IngredientLimit int `json:"ingredientLimit,omitempty"`
}

// Catalog is the decoded static data.
type Catalog struct {
	Recipes     []models.Recipe
	Suggestions []SuggestionGroup
	Plans       []Plan
}

// Load decodes the embedded data files.
func Load() (*Catalog, error) {
	c := &Catalog{}
	if err := decode("data/recipes.json", &c.Recipes); err != nil {
		return nil, err
	}
	if err := decode("data/suggestions.json", &c.Suggestions); err != nil {
		return nil, err
	}
	if err := decode("data/plans.json", &c.Plans); err != nil {
		return nil, err
	}

	for _, r := range c.Recipes {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("recipe %s: unknown category %q", r.ID, r.Category)
		}
	}
	for _, p := range c.Plans {
		if !p.ID.Valid() {
			return nil, fmt.Errorf("unknown plan %q", p.ID)
		}
	}
	return c, nil
}

func decode(name string, v any) error {
	b, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the embedded catalog, decoded on first use.
func Default() *Catalog { return defaultCatalog() }

// RecipesCopy returns a shallow copy of the recipe list.
func (c *Catalog) RecipesCopy() []models.Recipe {
	return slices.Clone(c.Recipes)
}

// Plan looks up a plan by tier.
func (c *Catalog) Plan(id models.PlanTier) (Plan, bool) {
	i := slices.IndexFunc(c.Plans, func(p Plan) bool { return p.ID == id })
	if i < 0 {
		return Plan{}, false
	}
	return c.Plans[i], true
}

// Suggested flattens every suggestion group into one list.
func (c *Catalog) Suggested() []SuggestedItem {
	var out []SuggestedItem
	for _, g := range c.Suggestions {
		out = append(out, g.Items...)
	}
	return out
}
