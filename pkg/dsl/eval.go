// Package dsl 基于 CEL (Common Expression Language) 为过滤规则提供表达式求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/animerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("anime", cel.DynType),
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("target", cel.DynType),
			cel.Variable("params", cel.DynType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

// Eval 是编译好的布尔表达式，可被多个请求并发复用。
//
// 可用变量：
//   - anime.title / anime.categories / anime.quality / anime.segment / anime.rating / anime.studio / anime.episodes
//   - item.id / item.row / item.score / item.features
//   - label.<key>：候选上已有 Label 的 Value
//   - target.title / target.row
//   - params.<key>：请求级参数
//
// 示例：
//   - `anime.episodes <= 26`
//   - `anime.studio != "Toei Animation" && item.features.shared_categories >= 2.0`
//   - `anime.categories.contains("Shonen")`
type Eval struct {
	expr string
	prg  cel.Program
}

// NewEval 编译表达式；表达式必须返回 bool。
func NewEval(expr string) (*Eval, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return boolean, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Eval{expr: expr, prg: prg}, nil
}

// String 返回原始表达式
func (e *Eval) String() string {
	return e.expr
}

// Evaluate 对单个候选求值。
// 访问不存在的 key 会返回错误，可用 `"key" in label` 先做存在性检查。
func (e *Eval) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	anime := map[string]any{}
	itemMap := map[string]any{}
	labels := map[string]any{}
	if item != nil {
		if a := item.Anime; a != nil {
			anime = map[string]any{
				"title":      a.Title,
				"categories": a.CategoryTags,
				"quality":    a.QualityScore,
				"segment":    a.EditorialSegment,
				"rating":     a.PublicRating,
				"studio":     a.Studio,
				"episodes":   a.EpisodeCount,
			}
		}
		features := make(map[string]any, len(item.Features))
		for k, v := range item.Features {
			features[k] = v
		}
		itemMap = map[string]any{
			"id":       item.ID,
			"row":      item.Row,
			"score":    item.Score,
			"features": features,
		}
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
	}

	target := map[string]any{}
	params := map[string]any{}
	if rctx != nil {
		target = map[string]any{
			"title": rctx.TargetTitle,
			"row":   rctx.TargetRow,
		}
		for k, v := range rctx.Params {
			params[k] = v
		}
	}

	return map[string]any{
		"anime":  anime,
		"item":   itemMap,
		"label":  labels,
		"target": target,
		"params": params,
	}
}
