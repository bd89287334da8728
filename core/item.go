package core

import "github.com/rushteam/animerec/pkg/utils"

// 链路中约定的特征名。
const (
	FeatureSharedCategories = "shared_categories" // 与目标番剧共享的类别数
	FeatureQuality          = "quality"           // 编辑质量分
)

// Item 是推荐链路中的统一承载结构：候选番剧、行号、特征、分数、标签。
// Row 是候选在数据集中的行号，排序时作为同分的稳定次序。
type Item struct {
	ID       string
	Row      int
	Anime    *Anime
	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// SharedCategories 返回 recall 阶段写入的共享类别数。
func (it *Item) SharedCategories() int {
	return int(it.Features[FeatureSharedCategories])
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
