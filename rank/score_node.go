package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/model"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/pkg/utils"
)

// ScoreNode 用 RankModel 为候选打分并排序。
// - 写入 labels：rank_model
// - 更新 item.Score，按分数降序稳定排序；同分时数据集中靠前的行排在前面，NaN 排在最后
type ScoreNode struct {
	Model model.RankModel
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	m := n.Model
	if m == nil {
		m = model.NewAdditiveModel()
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		score, err := m.Predict(it.Features)
		if err != nil {
			return nil, err
		}
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: m.Name(), Source: "rank"})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out, nil
}

// less 按分数降序；NaN 排在所有数值之后，同分（含同为 NaN）按行序。
func less(a, b *core.Item) bool {
	aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case aNaN != bNaN:
		return bNaN
	case !aNaN && a.Score != b.Score:
		return a.Score > b.Score
	}
	return a.Row < b.Row
}

func (n *ScoreNode) String() string {
	if n.Model == nil {
		return "rank.score(" + model.NewAdditiveModel().String() + ")"
	}
	if s, ok := n.Model.(fmt.Stringer); ok {
		return "rank.score(" + s.String() + ")"
	}
	return "rank.score(" + n.Model.Name() + ")"
}
