package models

import (
	"fmt"
	"time"
)

// IngredientCategory groups pantry ingredients.
type IngredientCategory string

const (
	Protein      IngredientCategory = "protein"
	Vegetable    IngredientCategory = "vegetable"
	Carbohydrate IngredientCategory = "carbohydrate"
	Dairy        IngredientCategory = "dairy"
	Seasoning    IngredientCategory = "seasoning"
	Other        IngredientCategory = "other"
)

// IngredientCategories lists every category in display order.
var IngredientCategories = []IngredientCategory{Protein, Vegetable, Carbohydrate, Dairy, Seasoning, Other}

// Valid reports whether c is a known category.
func (c IngredientCategory) Valid() bool {
	switch c {
	case Protein, Vegetable, Carbohydrate, Dairy, Seasoning, Other:
		return true
	}
	return false
}

// ParseIngredientCategory maps user input to a category. An empty string
// yields Other.
func ParseIngredientCategory(s string) (IngredientCategory, error) {
	if s == "" {
		return Other, nil
	}
	c := IngredientCategory(s)
	if !c.Valid() {
		return "", Invalid("Category", fmt.Sprintf("unknown ingredient category %q", s))
	}
	return c, nil
}

// Ingredient is one item owned by the user's pantry.
type Ingredient struct {
	// ID is unique within the inventory.
	ID string `json:"id"`
	// Name is the free-text ingredient name as typed by the user.
	Name string `json:"name" validate:"required"`
	// Quantity is how much of the ingredient is on hand.
	Quantity float64 `json:"quantity" validate:"gte=0"`
	// Unit is a free-text unit token ("g", "un", "ml"...).
	Unit string `json:"unit"`
	// Category is the pantry grouping.
	Category IngredientCategory `json:"category"`
	// ExpiryDate is when the ingredient goes off, if known.
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	// AddedDate is when the ingredient entered the pantry.
	AddedDate *time.Time `json:"addedDate,omitempty"`
}
