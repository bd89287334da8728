package recall

import (
	"context"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/pkg/utils"
)

// SimilarRecall 是基于类别重合度的召回源。
//
// 以目标番剧的成员向量为查询向量，对数据集每一行计算点积（共享类别数），
// 按表序输出全部行，写入特征：
//   - shared_categories：共享类别数
//   - quality：编辑质量分
//
// 是否剔除目标自身、零重合候选由后续 Filter 决定。
// SimilarRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type SimilarRecall struct{}

func (r *SimilarRecall) Name() string        { return "recall.similar" }
func (r *SimilarRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *SimilarRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

var _ Source = (*SimilarRecall)(nil)

// Recall 实现 Source 接口
func (r *SimilarRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Catalog == nil {
		return nil, nil
	}
	cat := rctx.Catalog
	if rctx.TargetRow < 0 || rctx.TargetRow >= cat.Len() {
		return nil, core.NewInvalidArgumentError(core.ModuleRecommend, "recall: target row out of range")
	}

	target := cat.Vector(rctx.TargetRow)
	out := make([]*core.Item, 0, cat.Len())
	for row := 0; row < cat.Len(); row++ {
		a := cat.At(row)
		it := core.NewItem(a.Title)
		it.Row = row
		it.Anime = a
		it.Features[core.FeatureSharedCategories] = float64(cat.Dot(row, target))
		it.Features[core.FeatureQuality] = a.QualityScore
		it.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
