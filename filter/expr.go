package filter

import (
	"context"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述额外的可推荐条件：表达式为 true 的候选保留，false 的被过滤。
//
// 示例：
//
//	anime.episodes <= 26
//	anime.studio != "Pierrot" && item.features.shared_categories >= 2.0
type ExprFilter struct {
	eval *dsl.Eval
}

// NewExprFilter 编译表达式并创建过滤器。
func NewExprFilter(expr string) (*ExprFilter, error) {
	eval, err := dsl.NewEval(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{eval: eval}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式
func (f *ExprFilter) Expr() string {
	return f.eval.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.eval.Evaluate(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

func (f *ExprFilter) String() string {
	return "filter.expr(" + f.eval.String() + ")"
}
