package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/core"
)

func TestLoadCSV(t *testing.T) {
	c, err := LoadCSV("testdata/animes.csv")
	require.NoError(t, err)

	require.Equal(t, 7, c.Len())
	assert.Equal(t, ColumnQualityComplex, c.QualityColumn())

	fma := c.At(0)
	assert.Equal(t, "Fullmetal Alchemist: Brotherhood", fma.Title)
	assert.Equal(t, 9.3, fma.QualityScore)
	assert.Equal(t, "Chef-d'œuvre", fma.EditorialSegment)
	assert.Equal(t, 9.1, fma.PublicRating)
	assert.Equal(t, "Bones", fma.Studio)
	assert.Equal(t, 64, fma.EpisodeCount)
	assert.Equal(t, "Action", fma.PrimaryCategory())

	row, ok := c.Lookup("Death Note")
	require.True(t, ok)
	assert.Equal(t, 6, row)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("testdata/does-not-exist.csv")
	assert.Error(t, err)
}

func TestReadCSV_QualityColumnResolution(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		opts       []Option
		wantColumn string
		wantScore  float64
		wantErr    bool
	}{
		{
			name:       "complex preferred",
			csv:        "Anime,Genre_Tags,Score_Expert,Score_Complexe\nA,Action,5,7\n",
			wantColumn: ColumnQualityComplex,
			wantScore:  7,
		},
		{
			name:       "expert fallback",
			csv:        "Anime,Genre_Tags,Score_Expert\nA,Action,5\n",
			wantColumn: ColumnQualityExpert,
			wantScore:  5,
		},
		{
			name:       "explicit override",
			csv:        "Anime,Genre_Tags,Score_Expert,Score_Complexe\nA,Action,5,7\n",
			opts:       []Option{WithQualityColumn(ColumnQualityExpert)},
			wantColumn: ColumnQualityExpert,
			wantScore:  5,
		},
		{
			name:    "override missing",
			csv:     "Anime,Genre_Tags,Score_Expert\nA,Action,5\n",
			opts:    []Option{WithQualityColumn("Score_Custom")},
			wantErr: true,
		},
		{
			name:    "no quality column",
			csv:     "Anime,Genre_Tags\nA,Action\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadCSV(strings.NewReader(tt.csv), tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumn, c.QualityColumn())
			assert.Equal(t, tt.wantScore, c.At(0).QualityScore)
		})
	}
}

func TestReadCSV_Cleaning(t *testing.T) {
	data := "\ufeffAnime,Genre_Tags,Score_Expert,Segment_Editorial,Note_Globale,Nb_Episodes\n" +
		"A,Action / Shonen,8.5, Très bon ,,12.0\n" +
		",Drama,7,Très bon,7,1\n" +
		"B,,6,,6.5,\n"

	c, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	a := c.At(0)
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, "Très bon", a.EditorialSegment)
	assert.Equal(t, 0.0, a.PublicRating)
	assert.Equal(t, 12, a.EpisodeCount)
	assert.Equal(t, []string{"Action", "Shonen"}, c.Universe().Tokens())

	b := c.At(1)
	assert.Equal(t, "B", b.Title)
	assert.Equal(t, "", b.CategoryTags)
	assert.Equal(t, []uint8{0, 0}, c.Vector(1))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty", csv: ""},
		{name: "missing title column", csv: "Name,Genre_Tags,Score_Expert\nA,Action,5\n"},
		{name: "bad quality", csv: "Anime,Genre_Tags,Score_Expert\nA,Action,great\n"},
		{name: "empty quality", csv: "Anime,Genre_Tags,Score_Expert\nA,Action,\n"},
		{name: "bad rating", csv: "Anime,Genre_Tags,Score_Expert,Note_Globale\nA,Action,5,n/a\n"},
		{name: "nan quality", csv: "Anime,Genre_Tags,Score_Expert\nT,Action,5\nB,Action,NaN\n"},
		{name: "inf quality", csv: "Anime,Genre_Tags,Score_Expert\nB,Action,+Inf\n"},
		{name: "nan rating", csv: "Anime,Genre_Tags,Score_Expert,Note_Globale\nA,Action,5,nan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, core.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func TestReadCSV_NonFiniteReportsLine(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Anime,Genre_Tags,Score_Expert\nT,Action,5\nB,Action,NaN\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), ColumnQualityExpert)
}
