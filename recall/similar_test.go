package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/catalog"
	"github.com/rushteam/animerec/core"
)

func TestSimilarRecall(t *testing.T) {
	cat := catalog.New([]core.Anime{
		{Title: "X", CategoryTags: "Action / Drama", QualityScore: 9.0},
		{Title: "Y", CategoryTags: "Action", QualityScore: 8.0},
		{Title: "Z", CategoryTags: "Comedy", QualityScore: 9.5},
		{Title: "E", QualityScore: 6.0},
	})
	rctx := &core.RecommendContext{TargetTitle: "X", TargetRow: 0, Catalog: cat}

	items, err := (&SimilarRecall{}).Process(context.Background(), rctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 4)

	wantShared := []int{2, 1, 0, 0}
	for i, it := range items {
		assert.Equal(t, i, it.Row)
		assert.Equal(t, cat.At(i).Title, it.ID)
		assert.Same(t, cat.At(i), it.Anime)
		assert.Equal(t, wantShared[i], it.SharedCategories())
		assert.Equal(t, cat.At(i).QualityScore, it.Features[core.FeatureQuality])
		assert.Equal(t, "similar", it.Labels["recall_source"].Value)
	}
}

func TestSimilarRecall_NoCatalog(t *testing.T) {
	items, err := (&SimilarRecall{}).Recall(context.Background(), &core.RecommendContext{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSimilarRecall_TargetOutOfRange(t *testing.T) {
	cat := catalog.New([]core.Anime{{Title: "X"}})
	_, err := (&SimilarRecall{}).Recall(context.Background(), &core.RecommendContext{TargetRow: 5, Catalog: cat})
	assert.True(t, core.IsInvalidArgument(err))
}
