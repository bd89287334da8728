package core

import "github.com/rushteam/animerec/pkg/utils"

// RecommendContext 承载单次推荐请求，贯穿整个 Pipeline 透传。
// 每次请求独立创建，Node 之间不共享任何可变状态。
type RecommendContext struct {
	// TargetTitle 是用户选择的番剧标题
	TargetTitle string

	// TargetRow 是 TargetTitle 在 Catalog 中解析出的行号
	TargetRow int

	// TopN 是请求的结果数量
	TopN int

	// Catalog 是本次请求使用的只读数据集
	Catalog Catalog

	// Labels 是请求级标签，可驱动 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级参数（如 scene / debug），供表达式过滤器读取
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
