package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/animerec/core"
)

// OverlapFilter 过滤共享类别数不足 MinShared 的候选。
// 零重合是硬过滤：无论质量分多高都不会被推荐。
type OverlapFilter struct {
	// MinShared 最少共享类别数，<= 0 时取 1
	MinShared int
}

func (f *OverlapFilter) Name() string {
	return "filter.overlap"
}

func (f *OverlapFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	minShared := f.MinShared
	if minShared <= 0 {
		minShared = 1
	}
	return item.SharedCategories() < minShared, nil
}

func (f *OverlapFilter) String() string {
	return fmt.Sprintf("filter.overlap(%d)", f.MinShared)
}
