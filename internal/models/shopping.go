package models

// ShoppingItem is one line of the shopping list.
type ShoppingItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Checked  bool    `json:"checked"`
	// IsManual is false for items derived from a meal plan or a suggestion.
	IsManual bool `json:"isManual"`
}
