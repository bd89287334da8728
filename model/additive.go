package model

import (
	"strings"

	"github.com/rushteam/animerec/core"
)

// AdditiveModel 把若干特征直接相加作为最终分，不做归一化也不加权。
//
// 默认 Keys = [shared_categories, quality]，即
//
//	FinalScore = SharedCategoryCount + QualityScore
type AdditiveModel struct {
	Keys []string
}

// NewAdditiveModel 创建默认的“共享类别数 + 质量分”模型。
func NewAdditiveModel() *AdditiveModel {
	return &AdditiveModel{Keys: []string{core.FeatureSharedCategories, core.FeatureQuality}}
}

func (m *AdditiveModel) Name() string { return "additive" }

func (m *AdditiveModel) Predict(features map[string]float64) (float64, error) {
	score := 0.0
	for _, k := range m.Keys {
		score += features[k]
	}
	return score, nil
}

func (m *AdditiveModel) String() string {
	return "additive(" + strings.Join(m.Keys, "+") + ")"
}
