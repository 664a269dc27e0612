// Package pantry manipulates the ingredient inventory.
package pantry

import (
	"slices"
	"strings"
	"time"

	"github.com/atinyakov/menufacil/internal/models"
)

// DefaultUnit is used when an ingredient is added without a unit.
const DefaultUnit = "un"

// Add validates ing, fills in its id, unit, category and added date, and
// returns the inventory with ing appended. inv is not modified.
func Add(inv []models.Ingredient, ing models.Ingredient, now time.Time) ([]models.Ingredient, models.Ingredient, error) {
	ing.Name = strings.TrimSpace(ing.Name)
	ing.Unit = strings.TrimSpace(ing.Unit)

	cat, err := models.ParseIngredientCategory(string(ing.Category))
	if err != nil {
		return inv, models.Ingredient{}, err
	}
	if err := models.Validate(ing); err != nil {
		return inv, models.Ingredient{}, err
	}

	ing.Category = cat
	if ing.ID == "" {
		ing.ID = models.NewID()
	}
	if ing.Unit == "" {
		ing.Unit = DefaultUnit
	}
	if ing.AddedDate == nil {
		ing.AddedDate = &now
	}

	out := make([]models.Ingredient, 0, len(inv)+1)
	out = append(out, inv...)
	return append(out, ing), ing, nil
}

// Remove drops the ingredient with the given id. It reports false when
// no such ingredient exists.
func Remove(inv []models.Ingredient, id string) ([]models.Ingredient, bool) {
	i := slices.IndexFunc(inv, func(ing models.Ingredient) bool { return ing.ID == id })
	if i < 0 {
		return inv, false
	}
	return slices.Delete(slices.Clone(inv), i, i+1), true
}

// Stats summarises the inventory.
type Stats struct {
	// TotalItems counts distinct ingredient records.
	TotalItems int `json:"totalItems"`
	// TotalQuantity sums quantities regardless of unit.
	TotalQuantity float64 `json:"totalQuantity"`
	// ByCategory groups ingredients; every category has an entry.
	ByCategory map[models.IngredientCategory][]models.Ingredient `json:"byCategory"`
	// Categories counts categories holding at least one ingredient.
	Categories int `json:"categories"`
}

// Summarize computes Stats for inv.
func Summarize(inv []models.Ingredient) Stats {
	st := Stats{
		TotalItems: len(inv),
		ByCategory: make(map[models.IngredientCategory][]models.Ingredient, len(models.IngredientCategories)),
	}
	for _, c := range models.IngredientCategories {
		st.ByCategory[c] = []models.Ingredient{}
	}

	for _, ing := range inv {
		st.TotalQuantity += ing.Quantity
		cat := ing.Category
		if !cat.Valid() {
			cat = models.Other
		}
		st.ByCategory[cat] = append(st.ByCategory[cat], ing)
	}

	for _, items := range st.ByCategory {
		if len(items) > 0 {
			st.Categories++
		}
	}
	return st
}

// ExpiringSoon returns the ingredients whose expiry date falls before
// now+window, including those already expired, soonest first.
func ExpiringSoon(inv []models.Ingredient, now time.Time, window time.Duration) []models.Ingredient {
	limit := now.Add(window)
	var out []models.Ingredient
	for _, ing := range inv {
		if ing.ExpiryDate != nil && ing.ExpiryDate.Before(limit) {
			out = append(out, ing)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Ingredient) int {
		return a.ExpiryDate.Compare(*b.ExpiryDate)
	})
	return out
}
