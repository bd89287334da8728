package rerank

import (
	"context"
	"fmt"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/pipeline"
)

// Diversity 按主类别限制重复：同一主类别最多保留 MaxPerCategory 个，保持输入顺序。
// 主类别取 CategoryTags 中第一个类别（core.Anime.PrimaryCategory）。
// 默认 Pipeline 不包含此节点。
type Diversity struct {
	// MaxPerCategory 每个主类别最多保留的数量，<= 0 时取 1
	MaxPerCategory int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Anime == nil {
			out = append(out, it)
			continue
		}
		cate := it.Anime.PrimaryCategory()
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}
	return out, nil
}

func (n *Diversity) String() string {
	return fmt.Sprintf("rerank.diversity(%d)", n.MaxPerCategory)
}
