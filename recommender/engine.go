// Package recommender 组装相似番剧推荐链路并对外提供推荐入口。
//
// 默认链路：
//
//	recall.similar → filter(self, overlap, segment, ...) → rank.score → rerank.topn
//
// Engine 只读共享 Catalog，每次调用独立创建 RecommendContext 和候选，可并发调用。
package recommender

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/rushteam/animerec/catalog"
	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/filter"
	"github.com/rushteam/animerec/model"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/rank"
	"github.com/rushteam/animerec/recall"
	"github.com/rushteam/animerec/rerank"
)

// Recommendation 是一条推荐结果：候选番剧、共享类别数与最终得分。
type Recommendation struct {
	Anime            core.Anime `json:"anime"`
	SharedCategories int        `json:"shared_categories"`
	FinalScore       float64    `json:"final_score"`
}

// Recommender 是推荐服务对外的能力集合，Engine 与 CachedEngine 都实现了它。
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) ([]Recommendation, error)
	Lookup(title string) (*core.Anime, error)
	Titles() []string
	Market() []catalog.QualityPoint
}

// Engine 是推荐引擎。
type Engine struct {
	catalog     *catalog.Catalog
	pipeline    *pipeline.Pipeline
	logger      zerolog.Logger
	fingerprint string
}

type engineOptions struct {
	logger         zerolog.Logger
	avoidMarker    string
	filters        []filter.Filter
	pipeline       *pipeline.Pipeline
	maxPerCategory int
}

// Option 配置 Engine。
type Option func(*engineOptions)

// WithLogger 设置日志，默认不输出。
func WithLogger(logger zerolog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithAvoidMarker 设置分段避免标记，默认 core.DefaultAvoidMarker；传空字符串关闭分段过滤。
func WithAvoidMarker(marker string) Option {
	return func(o *engineOptions) {
		o.avoidMarker = marker
	}
}

// WithFilters 在默认过滤器之后追加过滤器（黑名单、表达式等）。
func WithFilters(filters ...filter.Filter) Option {
	return func(o *engineOptions) {
		o.filters = append(o.filters, filters...)
	}
}

// WithDiversity 在截断前按主类别打散，每个主类别最多 maxPerCategory 个。
func WithDiversity(maxPerCategory int) Option {
	return func(o *engineOptions) {
		o.maxPerCategory = maxPerCategory
	}
}

// WithPipeline 使用自定义 Pipeline（例如由 YAML 配置构建），忽略其余链路相关选项。
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(o *engineOptions) {
		o.pipeline = p
	}
}

// New 创建推荐引擎。cat 必须已加载完成，此后只读。
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	o := &engineOptions{
		logger:      zerolog.Nop(),
		avoidMarker: core.DefaultAvoidMarker,
	}
	for _, opt := range opts {
		opt(o)
	}

	p := o.pipeline
	if p == nil {
		p = DefaultPipeline(o.avoidMarker, o.filters...)
		if o.maxPerCategory > 0 {
			// 打散插在 TopN 之前
			last := len(p.Nodes) - 1
			nodes := append([]pipeline.Node{}, p.Nodes[:last]...)
			nodes = append(nodes, &rerank.Diversity{MaxPerCategory: o.maxPerCategory}, p.Nodes[last])
			p.Nodes = nodes
		}
	}

	return &Engine{
		catalog:     cat,
		pipeline:    p,
		logger:      o.logger,
		fingerprint: engineFingerprint(cat, p),
	}
}

// engineFingerprint 由数据集内容与链路描述（过滤器参数、避免标记、截断等）得出。
func engineFingerprint(cat *catalog.Catalog, p *pipeline.Pipeline) string {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatUint(cat.Fingerprint(), 16))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(p.String())
	return fmt.Sprintf("%016x", d.Sum64())
}

// DefaultPipeline 构建默认推荐链路。avoidMarker 为空时不加分段过滤。
func DefaultPipeline(avoidMarker string, extra ...filter.Filter) *pipeline.Pipeline {
	filters := []filter.Filter{
		&filter.SelfFilter{},
		&filter.OverlapFilter{MinShared: 1},
	}
	if avoidMarker != "" {
		filters = append(filters, filter.NewSegmentFilter(avoidMarker))
	}
	filters = append(filters, extra...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.SimilarRecall{},
			&filter.FilterNode{Filters: filters},
			&rank.ScoreNode{Model: model.NewAdditiveModel()},
			&rerank.TopNNode{},
		},
	}
}

// Catalog 返回引擎使用的数据集。
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Pipeline 返回引擎使用的推荐链路。
func (e *Engine) Pipeline() *pipeline.Pipeline { return e.pipeline }

// Fingerprint 标识“数据集 + 链路配置”。两个引擎指纹相同，同一请求的结果就相同。
func (e *Engine) Fingerprint() string { return e.fingerprint }

// Recommend 返回与 title 最相似的至多 topN 部番剧，按 FinalScore 降序，同分按数据集行序。
//
// topN <= 0 返回 INVALID_INPUT（先于标题查找）；标题不存在返回 NOT_FOUND；
// 没有符合条件的候选时返回空切片。
func (e *Engine) Recommend(ctx context.Context, title string, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		return nil, core.NewInvalidArgumentError(core.ModuleRecommend, fmt.Sprintf("topN must be positive, got %d", topN))
	}
	row, ok := e.catalog.Lookup(title)
	if !ok {
		return nil, core.NewNotFoundError(title)
	}

	rctx := &core.RecommendContext{
		TargetTitle: title,
		TargetRow:   row,
		TopN:        topN,
		Catalog:     e.catalog,
	}
	items, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("recommend %q: %w", title, err)
	}
	if len(items) > topN {
		items = items[:topN]
	}

	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || it.Anime == nil {
			continue
		}
		out = append(out, Recommendation{
			Anime:            *it.Anime,
			SharedCategories: it.SharedCategories(),
			FinalScore:       it.Score,
		})
	}

	e.logger.Debug().
		Str("title", title).
		Int("top_n", topN).
		Int("results", len(out)).
		Msg("recommend")
	return out, nil
}

// Lookup 返回标题对应的番剧（重复标题取第一行）。
func (e *Engine) Lookup(title string) (*core.Anime, error) {
	row, ok := e.catalog.Lookup(title)
	if !ok {
		return nil, core.NewNotFoundError(title)
	}
	a := *e.catalog.At(row)
	return &a, nil
}

// Titles 返回可选标题列表（去重，保持数据集顺序）。
func (e *Engine) Titles() []string {
	return e.catalog.Titles()
}

// Market 返回市场分析散点数据。
func (e *Engine) Market() []catalog.QualityPoint {
	return e.catalog.QualityPoints()
}

var _ Recommender = (*Engine)(nil)
