// Package catalog 持有只读的番剧数据集及其类别成员矩阵。
//
// 番剧表与成员矩阵在 New 中由同一个有序切片一次性构建，行号天然对齐；
// 之后不再修改，可被任意多个并发请求共享。
package catalog

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/feature"
)

// Catalog 是加载后的数据集，实现 core.Catalog。
type Catalog struct {
	animes   []core.Anime
	universe *feature.CategoryUniverse
	matrix   *feature.MembershipMatrix
	first    map[string]int

	fingerprint uint64

	delimiter     string
	qualityColumn string
}

var _ core.Catalog = (*Catalog)(nil)

// Option 配置 Catalog 的构建与 CSV 加载。
type Option func(*options)

type options struct {
	delimiter     string
	qualityColumn string
}

// WithDelimiter 设置类别分隔符，默认 " / "
func WithDelimiter(delimiter string) Option {
	return func(o *options) {
		if delimiter != "" {
			o.delimiter = delimiter
		}
	}
}

// WithQualityColumn 强制使用指定列作为质量分，不再自动解析
func WithQualityColumn(column string) Option {
	return func(o *options) {
		o.qualityColumn = column
	}
}

func newOptions(opts []Option) *options {
	o := &options{delimiter: core.DefaultCategoryDelimiter}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New 从有序番剧列表构建 Catalog。animes 会被复制，调用方之后的修改不影响 Catalog。
// 标题唯一性由加载方保证；重复标题时 Lookup 返回第一行。
func New(animes []core.Anime, opts ...Option) *Catalog {
	o := newOptions(opts)

	rows := make([]core.Anime, len(animes))
	copy(rows, animes)

	universe, matrix := feature.NewCategoryVectorizer(o.delimiter).Vectorize(rows)

	first := make(map[string]int, len(rows))
	for i := range rows {
		if _, ok := first[rows[i].Title]; !ok {
			first[rows[i].Title] = i
		}
	}

	return &Catalog{
		animes:        rows,
		universe:      universe,
		matrix:        matrix,
		first:         first,
		delimiter:     o.delimiter,
		qualityColumn: o.qualityColumn,
		fingerprint:   fingerprint(rows, o.delimiter),
	}
}

// fingerprint 对分隔符与全部行内容做哈希，内容相同的数据集得到相同的值。
func fingerprint(rows []core.Anime, delimiter string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(delimiter)
	for i := range rows {
		a := &rows[i]
		for _, f := range []string{
			a.Title,
			a.CategoryTags,
			strconv.FormatFloat(a.QualityScore, 'g', -1, 64),
			a.EditorialSegment,
			strconv.FormatFloat(a.PublicRating, 'g', -1, 64),
			a.Studio,
			strconv.Itoa(a.EpisodeCount),
		} {
			_, _ = d.WriteString("\x1f")
			_, _ = d.WriteString(f)
		}
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

// Fingerprint 返回数据集内容的哈希
func (c *Catalog) Fingerprint() uint64 { return c.fingerprint }

func (c *Catalog) Len() int { return len(c.animes) }

func (c *Catalog) At(row int) *core.Anime { return &c.animes[row] }

func (c *Catalog) Lookup(title string) (int, bool) {
	row, ok := c.first[title]
	return row, ok
}

func (c *Catalog) Vector(row int) []uint8 { return c.matrix.Row(row) }

func (c *Catalog) Dot(row int, vec []uint8) int { return c.matrix.Dot(row, vec) }

// Universe 返回类别全集
func (c *Catalog) Universe() *feature.CategoryUniverse { return c.universe }

// Delimiter 返回构建时使用的类别分隔符
func (c *Catalog) Delimiter() string { return c.delimiter }

// QualityColumn 返回 CSV 中被选为质量分的列名；非 CSV 构建时为空
func (c *Catalog) QualityColumn() string { return c.qualityColumn }

// Titles 按表序返回去重后的标题列表。
func (c *Catalog) Titles() []string {
	out := make([]string, 0, len(c.first))
	for i := range c.animes {
		if c.first[c.animes[i].Title] == i {
			out = append(out, c.animes[i].Title)
		}
	}
	return out
}

// QualityPoint 是“公众评分 vs 编辑质量分”散点图中的一个点。
type QualityPoint struct {
	Title            string  `json:"title"`
	Studio           string  `json:"studio"`
	PublicRating     float64 `json:"public_rating"`
	QualityScore     float64 `json:"quality_score"`
	EditorialSegment string  `json:"editorial_segment"`
	EpisodeCount     int     `json:"episode_count"`
}

// QualityPoints 按表序返回全部番剧的散点数据。
func (c *Catalog) QualityPoints() []QualityPoint {
	out := make([]QualityPoint, 0, len(c.animes))
	for i := range c.animes {
		a := &c.animes[i]
		out = append(out, QualityPoint{
			Title:            a.Title,
			Studio:           a.Studio,
			PublicRating:     a.PublicRating,
			QualityScore:     a.QualityScore,
			EditorialSegment: a.EditorialSegment,
			EpisodeCount:     a.EpisodeCount,
		})
	}
	return out
}
