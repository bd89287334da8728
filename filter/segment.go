package filter

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/rushteam/animerec/core"
)

// SegmentFilter 过滤编辑分段中包含“避免”标记的候选（大小写不敏感的子串匹配）。
// 分段为空的候选不会被该规则过滤；Marker 为空时过滤器不生效。
type SegmentFilter struct {
	marker string
}

// NewSegmentFilter 创建分段过滤器，marker 为空时使用 core.DefaultAvoidMarker。
func NewSegmentFilter(marker string) *SegmentFilter {
	if marker == "" {
		marker = core.DefaultAvoidMarker
	}
	return &SegmentFilter{marker: fold(marker)}
}

func (f *SegmentFilter) Name() string {
	return "filter.segment"
}

func (f *SegmentFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Anime == nil {
		return true, nil
	}
	return f.Matches(item.Anime.EditorialSegment), nil
}

// Matches 报告 segment 是否带有避免标记，供展示层复用同一规则。
func (f *SegmentFilter) Matches(segment string) bool {
	if f.marker == "" || segment == "" {
		return false
	}
	return strings.Contains(fold(segment), f.marker)
}

// Caser 有状态，不能跨 goroutine 共享，每次调用新建。
func fold(s string) string {
	return cases.Fold().String(s)
}

func (f *SegmentFilter) String() string {
	return "filter.segment(" + f.marker + ")"
}
