package recommender

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency 是批量推荐的默认并发上限。
const DefaultBatchConcurrency = 8

// BatchResult 是批量推荐中单个标题的结果；单个标题失败不影响其他标题。
type BatchResult struct {
	Title           string           `json:"title"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Err             error            `json:"-"`
}

// Batch 并发计算多个相互独立的推荐请求，结果按 titles 的输入顺序返回。
// 只有 ctx 被取消时返回 error；单个标题的 NOT_FOUND 等错误记录在 BatchResult.Err。
func Batch(ctx context.Context, r Recommender, titles []string, topN, concurrency int) ([]BatchResult, error) {
	results := make([]BatchResult, len(titles))
	if len(titles) == 0 {
		return results, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, title := range titles {
		i, title := i, title
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			recs, err := r.Recommend(egCtx, title, topN)
			// 每个下标只由一个 goroutine 写入
			results[i] = BatchResult{Title: title, Recommendations: recs, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RecommendBatch 并发计算多个标题的推荐，见 Batch。
func (e *Engine) RecommendBatch(ctx context.Context, titles []string, topN int) ([]BatchResult, error) {
	return Batch(ctx, e, titles, topN, DefaultBatchConcurrency)
}
