package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/animerec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：Recall → Filter → Rank → ReRank。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// String 按顺序描述各 Node；实现了 fmt.Stringer 的 Node 给出带参数的描述。
// 结果只依赖配置，可用作缓存 key 的一部分。
func (p *Pipeline) String() string {
	parts := make([]string, 0, len(p.Nodes))
	for _, node := range p.Nodes {
		if s, ok := node.(fmt.Stringer); ok {
			parts = append(parts, s.String())
			continue
		}
		parts = append(parts, node.Name())
	}
	return strings.Join(parts, " -> ")
}
