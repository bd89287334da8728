package core

import "strings"

// Anime 是数据集中的一行，加载完成后只读。
//
// 只有 Title / CategoryTags / QualityScore / EditorialSegment 参与推荐计算；
// PublicRating / Studio / EpisodeCount 原样透传给展示层。
type Anime struct {
	Title            string  `json:"title"`
	CategoryTags     string  `json:"category_tags"`
	QualityScore     float64 `json:"quality_score"`
	EditorialSegment string  `json:"editorial_segment"`
	PublicRating     float64 `json:"public_rating"`
	Studio           string  `json:"studio"`
	EpisodeCount     int     `json:"episode_count"`
}

// PrimaryCategory 返回 CategoryTags 中第一个 '/' 之前的类别（去除空白）。
// 没有类别时返回 DefaultPrimaryCategory。
func (a *Anime) PrimaryCategory() string {
	head, _, _ := strings.Cut(a.CategoryTags, "/")
	head = strings.TrimSpace(head)
	if head == "" {
		return DefaultPrimaryCategory
	}
	return head
}

// Tier 是编辑分段在展示层的徽章等级。
type Tier string

const (
	TierTop     Tier = "top"     // Chef-d'œuvre
	TierGood    Tier = "good"    // Très bon
	TierCaution Tier = "caution" // Risqué / Inégal
	TierPoor    Tier = "poor"    // 其余
)

// SegmentTier 按子串把编辑分段映射到徽章等级，匹配区分大小写。
func SegmentTier(segment string) Tier {
	switch {
	case strings.Contains(segment, "Chef"):
		return TierTop
	case strings.Contains(segment, "Très bon"):
		return TierGood
	case strings.Contains(segment, "Risqué"):
		return TierCaution
	default:
		return TierPoor
	}
}
