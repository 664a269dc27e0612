// Package planner builds a four-meal plan from the pantry and derives the
// shopping items the plan still needs.
//
// Generation is a pure computation: the caller persists the plan and
// appends the derived items to the shopping list.
package planner

import (
	"math/rand/v2"
	"strings"

	"github.com/atinyakov/menufacil/internal/models"
)

const (
	// PlanSize is the maximum number of recipes in a plan.
	PlanSize = 4
	// MatchThreshold is the share of a recipe's ingredients that must be
	// in the pantry for the recipe to count as possible.
	MatchThreshold = 0.3
)

// Options tunes the matching rules.
type Options struct {
	// FoldAccents makes the "already in pantry" check of the shopping
	// derivation ignore diacritics, like recipe matching does. Off by
	// default, in which case that check only ignores case.
	FoldAccents bool
}

// Result is the outcome of one generation pass.
type Result struct {
	// Plan holds up to PlanSize recipes with distinct ids.
	Plan []models.Recipe
	// Additions are new unchecked, non-manual shopping items.
	Additions []models.ShoppingItem
}

// Generator picks recipes at random among the candidates.
type Generator struct {
	rnd   *rand.Rand
	opts  Options
	newID func() string
}

// New returns a Generator drawing from rnd. A nil rnd uses the global
// source.
func New(rnd *rand.Rand, opts Options) *Generator {
	return &Generator{rnd: rnd, opts: opts, newID: models.NewID}
}

func (g *Generator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}
	return g.rnd.IntN(n)
}

// Generate builds a plan from recipes given the pantry and the current
// shopping list. Neither input is modified.
func (g *Generator) Generate(inventory []models.Ingredient, shopping []models.ShoppingItem, recipes []models.Recipe) Result {
	names := pantryNames(inventory, Normalize)

	plan := make([]models.Recipe, 0, PlanSize)
	chosen := make(map[string]bool, PlanSize)

	for _, cat := range models.MealCategories {
		var candidates []models.Recipe
		for _, r := range recipes {
			if r.Category == cat && Possible(r, names) {
				candidates = append(candidates, r)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[g.intN(len(candidates))]
		plan = append(plan, pick)
		chosen[pick.ID] = true
	}

	if len(plan) < PlanSize {
		remaining := make([]models.Recipe, 0, len(recipes))
		for _, r := range recipes {
			if !chosen[r.ID] {
				remaining = append(remaining, r)
			}
		}
		for len(plan) < PlanSize && len(remaining) > 0 {
			i := g.intN(len(remaining))
			pick := remaining[i]
			remaining = append(remaining[:i], remaining[i+1:]...)
			if chosen[pick.ID] {
				continue
			}
			plan = append(plan, pick)
			chosen[pick.ID] = true
		}
	}

	return Result{Plan: plan, Additions: g.missing(plan, inventory, shopping)}
}

// missing lists the plan ingredients that are neither in the pantry nor
// on the shopping list, once per name.
func (g *Generator) missing(plan []models.Recipe, inventory []models.Ingredient, shopping []models.ShoppingItem) []models.ShoppingItem {
	fold := strings.ToLower
	if g.opts.FoldAccents {
		fold = Normalize
	}
	have := pantryNames(inventory, fold)

	out := []models.ShoppingItem{}
	for _, r := range plan {
		for _, ri := range r.Ingredients {
			if hasAny(have, fold(ri.Name)) {
				continue
			}
			if onList(shopping, ri.Name) || queued(out, ri.Name) {
				continue
			}
			out = append(out, models.ShoppingItem{
				ID:       g.newID(),
				Name:     ri.Name,
				Quantity: ri.Quantity,
				Unit:     ri.Unit,
			})
		}
	}
	return out
}

// Possible reports whether at least MatchThreshold of the recipe's
// ingredients overlap a normalized pantry name. Recipes without
// ingredients are always possible.
func Possible(r models.Recipe, pantry []string) bool {
	matched := 0
	for _, ri := range r.Ingredients {
		if hasAny(pantry, Normalize(ri.Name)) {
			matched++
		}
	}
	return float64(matched) >= float64(len(r.Ingredients))*MatchThreshold
}

// pantryNames folds every non-blank ingredient name. A blank name would
// be a substring of everything.
func pantryNames(inventory []models.Ingredient, fold func(string) string) []string {
	out := make([]string, 0, len(inventory))
	for _, ing := range inventory {
		n := fold(strings.TrimSpace(ing.Name))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func hasAny(names []string, want string) bool {
	for _, n := range names {
		if overlaps(n, want) {
			return true
		}
	}
	return false
}

func onList(items []models.ShoppingItem, name string) bool {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return true
		}
	}
	return false
}

func queued(items []models.ShoppingItem, name string) bool {
	for _, it := range items {
		if it.Name == name {
			return true
		}
	}
	return false
}
