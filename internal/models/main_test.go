package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_TimeOrdered(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestValidate(t *testing.T) {
	err := Validate(UserProfile{HouseholdSize: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"Name", "Email"}, verr.Fields)
	assert.Contains(t, err.Error(), "Name")

	assert.NoError(t, Validate(UserProfile{Name: "Ana", Email: "ana@example.com", HouseholdSize: 2}))

	err = Validate(Ingredient{Name: "Arroz", Quantity: -1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Quantity"}, verr.Fields)
}

func TestParseIngredientCategory(t *testing.T) {
	c, err := ParseIngredientCategory("")
	require.NoError(t, err)
	assert.Equal(t, Other, c)

	for _, want := range IngredientCategories {
		got, err := ParseIngredientCategory(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = ParseIngredientCategory("candy")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
