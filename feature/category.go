package feature

import (
	"sort"
	"strings"

	"github.com/rushteam/animerec/core"
)

// SplitCategories 按分隔符切分 CategoryTags，去除每个类别两侧空白并丢弃空类别。
// 同一类别重复出现时只保留一次，顺序按首次出现。
func SplitCategories(tags, delimiter string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	if delimiter == "" {
		delimiter = core.DefaultCategoryDelimiter
	}

	parts := strings.Split(tags, delimiter)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// CategoryUniverse 是数据集中出现过的全部类别，按字典序固定列顺序。
type CategoryUniverse struct {
	tokens []string
	index  map[string]int
}

// Len 返回类别数，即成员向量宽度
func (u *CategoryUniverse) Len() int { return len(u.tokens) }

// Tokens 返回按列序排列的类别副本
func (u *CategoryUniverse) Tokens() []string {
	return append([]string(nil), u.tokens...)
}

// Index 返回类别所在的列
func (u *CategoryUniverse) Index(token string) (int, bool) {
	i, ok := u.index[token]
	return i, ok
}

// MembershipMatrix 是每部番剧在 CategoryUniverse 上的 0/1 成员向量，行序与输入一致。
type MembershipMatrix struct {
	width int
	rows  [][]uint8
}

// Len 返回行数
func (m *MembershipMatrix) Len() int { return len(m.rows) }

// Width 返回向量宽度
func (m *MembershipMatrix) Width() int { return m.width }

// Row 返回第 i 行。返回的切片只读。
func (m *MembershipMatrix) Row(i int) []uint8 { return m.rows[i] }

// Dot 计算第 i 行与 vec 的点积（共享类别数）。
func (m *MembershipMatrix) Dot(i int, vec []uint8) int {
	row := m.rows[i]
	n := len(row)
	if len(vec) < n {
		n = len(vec)
	}
	sum := 0
	for j := 0; j < n; j++ {
		sum += int(row[j] & vec[j])
	}
	return sum
}

// CategoryVectorizer 把多值类别字段转为定宽的二值成员向量（multi-hot）。
type CategoryVectorizer struct {
	// Delimiter 是类别分隔符，默认 " / "
	Delimiter string
}

// NewCategoryVectorizer 创建使用指定分隔符的向量化器
func NewCategoryVectorizer(delimiter string) *CategoryVectorizer {
	return &CategoryVectorizer{Delimiter: delimiter}
}

// Vectorize 为 animes 构建类别全集与成员矩阵。
// 没有类别的番剧得到全 0 行：它不会与任何番剧共享类别，自身相似度也为 0。
func (v *CategoryVectorizer) Vectorize(animes []core.Anime) (*CategoryUniverse, *MembershipMatrix) {
	perRow := make([][]string, len(animes))
	index := make(map[string]int)
	for i := range animes {
		cats := SplitCategories(animes[i].CategoryTags, v.Delimiter)
		perRow[i] = cats
		for _, c := range cats {
			index[c] = 0
		}
	}

	tokens := make([]string, 0, len(index))
	for c := range index {
		tokens = append(tokens, c)
	}
	sort.Strings(tokens)
	for i, c := range tokens {
		index[c] = i
	}

	rows := make([][]uint8, len(animes))
	for i, cats := range perRow {
		row := make([]uint8, len(tokens))
		for _, c := range cats {
			row[index[c]] = 1
		}
		rows[i] = row
	}

	return &CategoryUniverse{tokens: tokens, index: index}, &MembershipMatrix{width: len(tokens), rows: rows}
}

// Vectorize 使用默认分隔符构建类别全集与成员矩阵。
func Vectorize(animes []core.Anime) (*CategoryUniverse, *MembershipMatrix) {
	return NewCategoryVectorizer(core.DefaultCategoryDelimiter).Vectorize(animes)
}
