package filter

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/animerec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉运营指定不再推荐的标题。
type BlacklistFilter struct {
	// Titles 是内存中的黑名单标题
	Titles map[string]struct{}

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	// loadErr 是 Prepare 读取 Store 失败的错误，静态名单仍然生效
	loadErr error
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单标题列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(titles []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		Titles: set,
		Store:  store,
		Key:    key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	if _, ok := f.Titles[item.ID]; ok {
		return true, nil
	}

	if f.loadErr != nil {
		return false, f.loadErr
	}

	// 从 Store 检查
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			return false, err
		}
		for _, title := range blacklist {
			if item.ID == title {
				return true, nil
			}
		}
	}

	return false, nil
}

// Prepare 从 Store 读取一次黑名单，与静态名单合并为本次请求使用的内存过滤器。
// 读取失败时静态名单照常过滤，其余候选记录该错误。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	if f.Store == nil || f.Key == "" {
		return f, nil
	}
	blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		return &BlacklistFilter{Titles: f.Titles, Key: f.Key, loadErr: err}, nil
	}
	set := make(map[string]struct{}, len(f.Titles)+len(blacklist))
	for t := range f.Titles {
		set[t] = struct{}{}
	}
	for _, t := range blacklist {
		set[t] = struct{}{}
	}
	return &BlacklistFilter{Titles: set, Key: f.Key}, nil
}

// String 描述静态名单与 Store key；Store 中的名单内容不在其中。
func (f *BlacklistFilter) String() string {
	titles := make([]string, 0, len(f.Titles))
	for t := range f.Titles {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return fmt.Sprintf("filter.blacklist(%q,key=%q)", titles, f.Key)
}

var _ Preparer = (*BlacklistFilter)(nil)
