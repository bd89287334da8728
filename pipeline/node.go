package pipeline

import (
	"context"

	"github.com/rushteam/animerec/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：为目标番剧生成带相似度的候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不可推荐的候选
	KindRank        Kind = "rank"        // 排序阶段：计算最终分并稳定排序
	KindReRank      Kind = "rerank"      // 重排阶段：截断 / 多样性
	KindPostProcess Kind = "postprocess" // 后处理阶段
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Recall 生成、Filter 剔除、ReRank 截断等操作。
// Node 必须无状态：同一个 Node 会被并发请求共享。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
