package filter

import (
	"context"

	"github.com/rushteam/animerec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Preparer 是可选接口：FilterNode 在每次 Process 开始时调用一次 Prepare，
// 用返回的 Filter 处理本次请求的全部候选，适合按请求加载外部数据的过滤器。
// Prepare 返回错误时 FilterNode 退回原过滤器。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}

