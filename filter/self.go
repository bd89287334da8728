package filter

import (
	"context"

	"github.com/rushteam/animerec/core"
)

// SelfFilter 过滤与目标同名的候选：永远不把番剧推荐给它自己。
// 按标题比较，重复标题的所有行都会被剔除。
type SelfFilter struct{}

func (f *SelfFilter) Name() string {
	return "filter.self"
}

func (f *SelfFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}
	if rctx == nil {
		return false, nil
	}
	return item.Anime.Title == rctx.TargetTitle, nil
}
