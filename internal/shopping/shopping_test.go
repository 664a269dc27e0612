package shopping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
)

func TestAdd(t *testing.T) {
	list := []models.ShoppingItem{{ID: "x", Name: "Sal", Quantity: 1}}

	out, item, err := Add(list, models.ShoppingItem{Name: " Café ", Quantity: 2, Unit: "pct", Checked: true})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, list, 1)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Café", item.Name)
	assert.True(t, item.IsManual)
	assert.False(t, item.Checked)
	assert.Equal(t, item, out[1])

	out, _, err = Add(out, models.ShoppingItem{Name: "Sal", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, out, 3, "duplicates are not merged")
}

func TestAdd_Invalid(t *testing.T) {
	_, _, err := Add(nil, models.ShoppingItem{Name: ""})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Name"}, verr.Fields)

	_, _, err = Add(nil, models.ShoppingItem{Name: "Sal", Quantity: -2})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Quantity"}, verr.Fields)
}

func TestToggleAndRemove(t *testing.T) {
	list := []models.ShoppingItem{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	out, ok := Toggle(list, "b")
	require.True(t, ok)
	assert.True(t, out[1].Checked)
	assert.False(t, list[1].Checked)

	out, ok = Toggle(out, "b")
	require.True(t, ok)
	assert.False(t, out[1].Checked)

	_, ok = Toggle(list, "missing")
	assert.False(t, ok)

	out, ok = Remove(list, "a")
	require.True(t, ok)
	assert.Equal(t, []models.ShoppingItem{{ID: "b", Name: "B"}}, out)
	assert.Len(t, list, 2)

	_, ok = Remove(list, "missing")
	assert.False(t, ok)
}

func TestSuggestions(t *testing.T) {
	suggested := catalog.Default().Suggested()
	names := []string{"Ovos", "Tomate", "Inexistente"}

	out, added := AddSuggestions(nil, suggested, names)
	require.Len(t, added, 2)
	assert.Equal(t, added, out)
	for _, it := range added {
		assert.False(t, it.IsManual)
		assert.False(t, it.Checked)
		assert.NotEmpty(t, it.ID)
	}
	assert.Equal(t, "Ovos", added[0].Name)
	assert.Equal(t, 12.0, added[0].Quantity)
	assert.Equal(t, "un", added[0].Unit)

	assert.InDelta(t, 12.50+6.90, EstimateTotal(suggested, names), 1e-9)
	assert.Zero(t, EstimateTotal(suggested, nil))

	_, added = AddSuggestions(nil, suggested, nil)
	assert.Empty(t, added)
}
