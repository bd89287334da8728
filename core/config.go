package core

// 推荐相关的默认值。
const (
	// DefaultTopN 是调用方未指定数量时返回的推荐条数
	DefaultTopN = 4

	// DefaultAvoidMarker 是编辑分段中表示“不应推荐”的标记（大小写不敏感子串匹配）
	DefaultAvoidMarker = "éviter"

	// DefaultCategoryDelimiter 是 CategoryTags 中类别之间的分隔符
	DefaultCategoryDelimiter = " / "

	// DefaultPrimaryCategory 是没有类别时展示用的主类别
	DefaultPrimaryCategory = "Autre"
)
