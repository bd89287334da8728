package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉；保留的候选维持输入顺序。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	filters := n.prepare(ctx, rctx)
	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		// 依次检查每个过滤器
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				item.PutLabel("filter_error", utils.Label{Value: err.Error(), Source: f.Name()})
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			// 记录过滤原因（可选，用于调试/观测）
			item.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, item)
	}

	return out, nil
}

// prepare 为本次请求解析实现了 Preparer 的过滤器。
func (n *FilterNode) prepare(ctx context.Context, rctx *core.RecommendContext) []Filter {
	filters := make([]Filter, len(n.Filters))
	for i, f := range n.Filters {
		p, ok := f.(Preparer)
		if !ok {
			filters[i] = f
			continue
		}
		prepared, err := p.Prepare(ctx, rctx)
		if err != nil || prepared == nil {
			filters[i] = f
			continue
		}
		filters[i] = prepared
	}
	return filters
}

// String 依次描述内部过滤器，实现了 fmt.Stringer 的过滤器给出带参数的描述。
func (n *FilterNode) String() string {
	parts := make([]string, 0, len(n.Filters))
	for _, f := range n.Filters {
		if s, ok := f.(fmt.Stringer); ok {
			parts = append(parts, s.String())
			continue
		}
		parts = append(parts, f.Name())
	}
	return "filter.node[" + strings.Join(parts, ",") + "]"
}
