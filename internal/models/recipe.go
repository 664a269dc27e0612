package models

// MealCategory is the slot of the day a recipe belongs to.
type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snack     MealCategory = "snack"
)

// MealCategories lists the plan slots in order.
var MealCategories = []MealCategory{Breakfast, Lunch, Dinner, Snack}

// Valid reports whether c is a known meal category.
func (c MealCategory) Valid() bool {
	switch c {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// RecipeIngredient is one requirement of a recipe.
type RecipeIngredient struct {
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// Recipe is an immutable catalog entry.
type Recipe struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Category     MealCategory       `json:"category"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions string             `json:"instructions"`
	PrepTime     int                `json:"prepTime"`
}
