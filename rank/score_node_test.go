package rank

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/core"
)

func newItem(row int, shared int, quality float64) *core.Item {
	it := core.NewItem(string(rune('A' + row)))
	it.Row = row
	it.Features[core.FeatureSharedCategories] = float64(shared)
	it.Features[core.FeatureQuality] = quality
	return it
}

func TestScoreNode(t *testing.T) {
	items := []*core.Item{
		newItem(0, 1, 8.0), // 9.0
		newItem(1, 3, 6.5), // 9.5
		newItem(2, 2, 7.0), // 9.0
		newItem(3, 0, 9.9), // 9.9
		nil,
	}

	out, err := (&ScoreNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	require.Len(t, out, 4)

	gotRows := []int{out[0].Row, out[1].Row, out[2].Row, out[3].Row}
	assert.Equal(t, []int{3, 1, 0, 2}, gotRows)
	assert.InDelta(t, 9.9, out[0].Score, 1e-9)
	assert.InDelta(t, 9.0, out[2].Score, 1e-9)
	assert.Equal(t, "additive", out[0].Labels["rank_model"].Value)

	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestScoreNode_TieBreakUsesRowNotInputOrder(t *testing.T) {
	items := []*core.Item{newItem(5, 1, 8.0), newItem(2, 1, 8.0)}
	out, err := (&ScoreNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, 2, out[0].Row)
	assert.Equal(t, 5, out[1].Row)
}

type failingModel struct{}

func (m *failingModel) Name() string { return "failing" }
func (m *failingModel) Predict(map[string]float64) (float64, error) {
	return 0, errors.New("boom")
}

func TestScoreNode_ModelError(t *testing.T) {
	_, err := (&ScoreNode{Model: &failingModel{}}).Process(context.Background(), nil, []*core.Item{newItem(0, 1, 1)})
	assert.Error(t, err)
}

func TestScoreNode_Empty(t *testing.T) {
	out, err := (&ScoreNode{}).Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScoreNode_NaNSortsLast(t *testing.T) {
	items := []*core.Item{
		newItem(0, 1, 3),          // 4
		newItem(1, 1, math.NaN()), // NaN
		newItem(2, 1, 9),          // 10
		newItem(3, 1, 1),          // 2
		newItem(4, 1, math.NaN()), // NaN
		newItem(5, 1, 7),          // 8
	}

	out, err := (&ScoreNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	require.Len(t, out, 6)

	gotRows := make([]int, 0, len(out))
	for _, it := range out {
		gotRows = append(gotRows, it.Row)
	}
	assert.Equal(t, []int{2, 5, 0, 3, 1, 4}, gotRows)
	for i := 1; i < 4; i++ {
		assert.LessOrEqual(t, out[i].Score, out[i-1].Score)
	}
	assert.True(t, math.IsNaN(out[4].Score))
	assert.True(t, math.IsNaN(out[5].Score))
}
