// Package shopping edits the shopping list.
package shopping

import (
	"slices"
	"strings"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
)

// Add appends a manually entered item. Items are never merged.
func Add(list []models.ShoppingItem, item models.ShoppingItem) ([]models.ShoppingItem, models.ShoppingItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Unit = strings.TrimSpace(item.Unit)
	if err := models.Validate(item); err != nil {
		return list, models.ShoppingItem{}, err
	}

	if item.ID == "" {
		item.ID = models.NewID()
	}
	item.Checked = false
	item.IsManual = true
	return Append(list, item), item, nil
}

// Append returns list followed by items. list is not modified.
func Append(list []models.ShoppingItem, items ...models.ShoppingItem) []models.ShoppingItem {
	out := make([]models.ShoppingItem, 0, len(list)+len(items))
	out = append(out, list...)
	return append(out, items...)
}

// Toggle flips the checked flag of the item with id.
func Toggle(list []models.ShoppingItem, id string) ([]models.ShoppingItem, bool) {
	i := slices.IndexFunc(list, func(it models.ShoppingItem) bool { return it.ID == id })
	if i < 0 {
		return list, false
	}
	out := slices.Clone(list)
	out[i].Checked = !out[i].Checked
	return out, true
}

// Remove drops the item with id.
func Remove(list []models.ShoppingItem, id string) ([]models.ShoppingItem, bool) {
	i := slices.IndexFunc(list, func(it models.ShoppingItem) bool { return it.ID == id })
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}

// AddSuggestions appends every suggestion whose name is in names as an
// unchecked, non-manual item. It returns the new list and the added items.
func AddSuggestions(list []models.ShoppingItem, suggestions []catalog.SuggestedItem, names []string) ([]models.ShoppingItem, []models.ShoppingItem) {
	added := []models.ShoppingItem{}
	for _, s := range suggestions {
		if !slices.Contains(names, s.Name) {
			continue
		}
		added = append(added, models.ShoppingItem{
			ID:       models.NewID(),
			Name:     s.Name,
			Quantity: s.Quantity,
			Unit:     s.Unit,
		})
	}
	return Append(list, added...), added
}

// EstimateTotal sums the prices of the selected suggestions.
func EstimateTotal(suggestions []catalog.SuggestedItem, names []string) float64 {
	var total float64
	for _, s := range suggestions {
		if slices.Contains(names, s.Name) {
			total += s.Price
		}
	}
	return total
}
