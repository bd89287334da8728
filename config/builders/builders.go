// Package builders 注册内置 Node 的配置构建器。
package builders

import (
	"fmt"

	"github.com/rushteam/animerec/config"
	"github.com/rushteam/animerec/filter"
	"github.com/rushteam/animerec/model"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/pkg/conv"
	"github.com/rushteam/animerec/rank"
	"github.com/rushteam/animerec/recall"
	"github.com/rushteam/animerec/rerank"
)

func init() {
	config.Register("recall.similar", BuildSimilarNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.score", BuildScoreNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

func BuildSimilarNode(map[string]any) (pipeline.Node, error) {
	return &recall.SimilarRecall{}, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		f, err := BuildFilter(filterMap)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildFilter 根据 type 构建单个过滤器。
func BuildFilter(cfg map[string]any) (filter.Filter, error) {
	filterType := conv.ConfigGet(cfg, "type", "")
	switch filterType {
	case "self":
		return &filter.SelfFilter{}, nil
	case "overlap":
		return &filter.OverlapFilter{MinShared: conv.ConfigGetInt(cfg, "min_shared", 1)}, nil
	case "segment":
		return filter.NewSegmentFilter(conv.ConfigGet(cfg, "marker", "")), nil
	case "blacklist":
		return filter.NewBlacklistFilter(conv.SliceAnyToString(cfg["titles"]), nil, ""), nil
	case "expr":
		expr := conv.ConfigGet(cfg, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("expr filter: expr not found")
		}
		return filter.NewExprFilter(expr)
	default:
		return nil, fmt.Errorf("unknown filter type: %s", filterType)
	}
}

func BuildScoreNode(cfg map[string]any) (pipeline.Node, error) {
	m := model.NewAdditiveModel()
	if keys := conv.SliceAnyToString(cfg["features"]); len(keys) > 0 {
		m.Keys = keys
	}
	return &rank.ScoreNode{Model: m}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{MaxPerCategory: conv.ConfigGetInt(cfg, "max_per_category", 1)}, nil
}
