package pantry

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNames(t *testing.T) {
	names, err := NormalizeNames([]string{"Tomate", " huevo", "tomate ", "aceite  de oliva"})

	require.NoError(t, err)
	assert.Equal(t, []string{"aceite de oliva", "huevo", "tomate"}, names)
}

func TestNormalizeNames_Empty(t *testing.T) {
	names, err := NormalizeNames(nil)

	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestNormalizeNames_BlankRejectsAll(t *testing.T) {
	_, err := NormalizeNames([]string{"sal", "   "})

	assert.ErrorIs(t, err, ErrBlankIngredient)
}

func TestNormalizeNames_TooMany(t *testing.T) {
	names := make([]string, MaxItems+1)
	for i := range names {
		names[i] = "item-" + strconv.Itoa(i)
	}

	_, err := NormalizeNames(names)

	assert.ErrorIs(t, err, ErrTooManyItems)
}

func TestNames(t *testing.T) {
	items := []Item{{Name: "ajo"}, {Name: "sal"}}

	assert.Equal(t, []string{"ajo", "sal"}, Names(items))
}
