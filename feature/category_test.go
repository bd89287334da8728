package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/core"
)

func TestSplitCategories(t *testing.T) {
	tests := []struct {
		name      string
		tags      string
		delimiter string
		want      []string
	}{
		{name: "two categories", tags: "Action / Shonen", want: []string{"Action", "Shonen"}},
		{name: "surrounding spaces", tags: "  Action /  Shonen  ", want: []string{"Action", "Shonen"}},
		{name: "single", tags: "Drama", want: []string{"Drama"}},
		{name: "empty", tags: "", want: nil},
		{name: "blank", tags: "   ", want: nil},
		{name: "empty segment", tags: "Action /  / Drama", want: []string{"Action", "Drama"}},
		{name: "duplicate", tags: "Action / Action", want: []string{"Action"}},
		{name: "custom delimiter", tags: "Action|Drama", delimiter: "|", want: []string{"Action", "Drama"}},
		{name: "multi word", tags: "Slice of Life / Award Winning", want: []string{"Slice of Life", "Award Winning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCategories(tt.tags, tt.delimiter))
		})
	}
}

func TestVectorize(t *testing.T) {
	animes := []core.Anime{
		{Title: "X", CategoryTags: "Action / Drama"},
		{Title: "Y", CategoryTags: "Action"},
		{Title: "Z", CategoryTags: "Comedy"},
		{Title: "E", CategoryTags: ""},
	}

	universe, matrix := Vectorize(animes)

	require.Equal(t, []string{"Action", "Comedy", "Drama"}, universe.Tokens())
	require.Equal(t, 3, universe.Len())
	require.Equal(t, len(animes), matrix.Len())
	assert.Equal(t, 3, matrix.Width())

	for i := 0; i < matrix.Len(); i++ {
		assert.Len(t, matrix.Row(i), universe.Len(), "row %d width", i)
	}

	assert.Equal(t, []uint8{1, 0, 1}, matrix.Row(0))
	assert.Equal(t, []uint8{1, 0, 0}, matrix.Row(1))
	assert.Equal(t, []uint8{0, 1, 0}, matrix.Row(2))
	assert.Equal(t, []uint8{0, 0, 0}, matrix.Row(3))

	target := matrix.Row(0)
	assert.Equal(t, 2, matrix.Dot(0, target))
	assert.Equal(t, 1, matrix.Dot(1, target))
	assert.Equal(t, 0, matrix.Dot(2, target))
	assert.Equal(t, 0, matrix.Dot(3, target))
	assert.Equal(t, 0, matrix.Dot(3, matrix.Row(3)))
}

func TestVectorize_ParsesTokensNotRawString(t *testing.T) {
	universe, _ := Vectorize([]core.Anime{{Title: "A", CategoryTags: "Action / Shonen"}})

	_, ok := universe.Index("Action / Shonen")
	assert.False(t, ok)
	_, ok = universe.Index(" Shonen")
	assert.False(t, ok)
	_, ok = universe.Index("Action")
	assert.True(t, ok)
	_, ok = universe.Index("Shonen")
	assert.True(t, ok)
}

func TestVectorize_Empty(t *testing.T) {
	universe, matrix := Vectorize(nil)
	assert.Equal(t, 0, universe.Len())
	assert.Equal(t, 0, matrix.Len())

	universe, matrix = Vectorize([]core.Anime{{Title: "A"}, {Title: "B"}})
	assert.Equal(t, 0, universe.Len())
	assert.Equal(t, 2, matrix.Len())
	assert.Equal(t, 0, matrix.Dot(0, matrix.Row(1)))
}

func TestCategoryVectorizer_Delimiter(t *testing.T) {
	v := NewCategoryVectorizer(",")
	universe, matrix := v.Vectorize([]core.Anime{{CategoryTags: "Action, Drama"}, {CategoryTags: "Drama"}})
	assert.Equal(t, []string{"Action", "Drama"}, universe.Tokens())
	assert.Equal(t, 1, matrix.Dot(1, matrix.Row(0)))
}
