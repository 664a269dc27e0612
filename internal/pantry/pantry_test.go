package pantry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/menufacil/internal/models"
)

var now = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

func day(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func TestAdd(t *testing.T) {
	inv := []models.Ingredient{{ID: "a", Name: "Arroz", Quantity: 1, Category: models.Carbohydrate}}

	out, ing, err := Add(inv, models.Ingredient{Name: "  Tomate ", Quantity: 3}, now)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, inv, 1)

	assert.NotEmpty(t, ing.ID)
	assert.Equal(t, "Tomate", ing.Name)
	assert.Equal(t, DefaultUnit, ing.Unit)
	assert.Equal(t, models.Other, ing.Category)
	require.NotNil(t, ing.AddedDate)
	assert.Equal(t, now, *ing.AddedDate)
	assert.Equal(t, ing, out[1])
}

func TestAdd_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		ing   models.Ingredient
		field string
	}{
		{"blank name", models.Ingredient{Name: "  ", Quantity: 1}, "Name"},
		{"negative quantity", models.Ingredient{Name: "Sal", Quantity: -1}, "Quantity"},
		{"unknown category", models.Ingredient{Name: "Sal", Category: "spices"}, "Category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := Add(nil, tt.ing, now)
			require.Error(t, err)
			assert.Empty(t, out)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestRemove(t *testing.T) {
	inv := []models.Ingredient{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, ok := Remove(inv, "b")
	require.True(t, ok)
	assert.Equal(t, []models.Ingredient{{ID: "a"}, {ID: "c"}}, out)
	assert.Len(t, inv, 3)
	assert.Equal(t, "b", inv[1].ID)

	out, ok = Remove(inv, "zzz")
	assert.False(t, ok)
	assert.Equal(t, inv, out)
}

func TestSummarize(t *testing.T) {
	inv := []models.Ingredient{
		{ID: "1", Name: "Frango", Quantity: 2, Category: models.Protein},
		{ID: "2", Name: "Ovos", Quantity: 12, Category: models.Protein},
		{ID: "3", Name: "Leite", Quantity: 1.5, Category: models.Dairy},
		{ID: "4", Name: "???", Quantity: 1, Category: "legacy"},
	}

	st := Summarize(inv)
	assert.Equal(t, 4, st.TotalItems)
	assert.InDelta(t, 16.5, st.TotalQuantity, 1e-9)
	assert.Equal(t, 3, st.Categories)
	assert.Len(t, st.ByCategory[models.Protein], 2)
	assert.Len(t, st.ByCategory[models.Dairy], 1)
	assert.Len(t, st.ByCategory[models.Other], 1)
	assert.NotNil(t, st.ByCategory[models.Seasoning])
	assert.Empty(t, st.ByCategory[models.Seasoning])

	empty := Summarize(nil)
	assert.Zero(t, empty.TotalItems)
	assert.Zero(t, empty.Categories)
	assert.Len(t, empty.ByCategory, len(models.IngredientCategories))
}

func TestExpiringSoon(t *testing.T) {
	inv := []models.Ingredient{
		{ID: "later", ExpiryDate: day(10)},
		{ID: "none"},
		{ID: "soon", ExpiryDate: day(2)},
		{ID: "expired", ExpiryDate: day(-1)},
		{ID: "edge", ExpiryDate: day(3)},
	}

	got := ExpiringSoon(inv, now, 72*time.Hour)
	ids := make([]string, 0, len(got))
	for _, ing := range got {
		ids = append(ids, ing.ID)
	}
	assert.Equal(t, []string{"expired", "soon"}, ids)

	assert.Empty(t, ExpiringSoon(nil, now, time.Hour))
}
