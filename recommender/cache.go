package recommender

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/animerec/core"
)

// DefaultCachePrefix 是推荐结果缓存 key 的默认前缀。
const DefaultCachePrefix = "animerec:rec"

// CachedEngine 在 Engine 之外加一层结果缓存。
//
// 推荐是确定性计算，缓存只是对同一 (引擎指纹, title, topN) 结果的记忆，不记录任何请求历史。
// 指纹覆盖数据集内容和链路配置，配置或数据变化后旧结果不会被命中。
// 错误结果不缓存；Store 读写失败只记日志，回退到实时计算。
type CachedEngine struct {
	*Engine

	store  core.Store
	ttl    int // 秒，0 表示不过期
	prefix string
}

// NewCachedEngine 创建带缓存的推荐引擎。
func NewCachedEngine(engine *Engine, store core.Store, ttlSeconds int) *CachedEngine {
	return &CachedEngine{
		Engine: engine,
		store:  store,
		ttl:    ttlSeconds,
		prefix: DefaultCachePrefix,
	}
}

// WithPrefix 设置缓存 key 前缀，多个数据集共用一个 Redis 时用来隔离。
func (c *CachedEngine) WithPrefix(prefix string) *CachedEngine {
	if prefix != "" {
		c.prefix = prefix
	}
	return c
}

// Prefix 返回缓存 key 前缀
func (c *CachedEngine) Prefix() string { return c.prefix }

func (c *CachedEngine) cacheKey(title string, topN int) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.prefix, c.Engine.Fingerprint(), topN, title)
}

// Recommend 先查缓存，未命中时调用 Engine.Recommend 并写回。
func (c *CachedEngine) Recommend(ctx context.Context, title string, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		return c.Engine.Recommend(ctx, title, topN)
	}

	key := c.cacheKey(title, topN)
	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var recs []Recommendation
		if err := json.Unmarshal(data, &recs); err == nil {
			c.logger.Debug().Str("key", key).Msg("recommend cache hit")
			return recs, nil
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("recommend cache decode failed")
	case !core.IsStoreNotFound(err):
		c.logger.Warn().Err(err).Str("store", c.store.Name()).Msg("recommend cache get failed")
	}

	recs, err := c.Engine.Recommend(ctx, title, topN)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recs); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("store", c.store.Name()).Msg("recommend cache set failed")
		}
	}
	return recs, nil
}

// RecommendBatch 并发计算多个标题的推荐，逐个走缓存。
func (c *CachedEngine) RecommendBatch(ctx context.Context, titles []string, topN int) ([]BatchResult, error) {
	return Batch(ctx, c, titles, topN, DefaultBatchConcurrency)
}

// Invalidate 删除某个 (title, topN) 的缓存结果。
func (c *CachedEngine) Invalidate(ctx context.Context, title string, topN int) error {
	return c.store.Delete(ctx, c.cacheKey(title, topN))
}

var _ Recommender = (*CachedEngine)(nil)
