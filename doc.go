// Package animerec 是一个基于类别重合度的相似番剧推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Catalog 只读: 数据集与类别成员矩阵在同一次遍历中构建，加载后不再修改
// - Labels-first: 过滤原因、召回来源等以 label 形式透传，便于 explain / 观测
//
// 得分规则：FinalScore = 共享类别数 + 编辑质量分，按得分降序、同分按数据集行序。
package animerec

import (
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/recommender"
)

// 轻量 facade：便于用户直接 import "animerec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Engine = recommender.Engine
type Recommendation = recommender.Recommendation

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
