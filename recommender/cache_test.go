package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/catalog"
	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/filter"
	"github.com/rushteam/animerec/store"
)

type brokenStore struct{}

func (brokenStore) Name() string { return "broken" }
func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, []byte, ...int) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(context.Context, string) error { return nil }
func (brokenStore) Close() error                         { return nil }

func TestCachedEngine_HitAndMiss(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	c := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	first, err := c.Recommend(ctx, "X", 4)
	require.NoError(t, err)

	data, err := ms.Get(ctx, c.cacheKey("X", 4))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"Y"`)

	second, err := c.Recommend(ctx, "X", 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// topN 不同是不同的 key
	_, err = ms.Get(ctx, c.cacheKey("X", 2))
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, c.Invalidate(ctx, "X", 4))
	_, err = ms.Get(ctx, c.cacheKey("X", 4))
	assert.True(t, core.IsStoreNotFound(err))
}

func TestCachedEngine_ServesStoredValue(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	c := NewCachedEngine(New(scenarioCatalog()), ms, 0).WithPrefix("test")
	key := "test:" + c.Fingerprint() + ":4:X"
	assert.Equal(t, key, c.cacheKey("X", 4))
	require.NoError(t, ms.Set(ctx, key, []byte(`[{"anime":{"title":"Z"},"shared_categories":0,"final_score":1}]`)))

	recs, err := c.Recommend(ctx, "X", 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Z", recs[0].Anime.Title)
}

func TestCachedEngine_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	c := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	_, err := c.Recommend(ctx, "Unknown", 4)
	assert.True(t, core.IsNotFound(err))
	_, err = ms.Get(ctx, c.cacheKey("Unknown", 4))
	assert.True(t, core.IsStoreNotFound(err))

	_, err = c.Recommend(ctx, "X", 0)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestCachedEngine_CorruptEntryRecomputed(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	c := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	require.NoError(t, ms.Set(ctx, c.cacheKey("X", 4), []byte("not json")))

	recs, err := c.Recommend(ctx, "X", 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Y", recs[0].Anime.Title)
}

func TestCachedEngine_BrokenStoreFallsThrough(t *testing.T) {
	c := NewCachedEngine(New(scenarioCatalog()), brokenStore{}, 60)
	recs, err := c.Recommend(context.Background(), "X", 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Y", recs[0].Anime.Title)
}

func TestCachedEngine_SharedStoreSeparatesConfigs(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	permissive := NewCachedEngine(New(scenarioCatalog(), WithAvoidMarker("")), ms, 60)
	strict := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	require.NotEqual(t, permissive.Fingerprint(), strict.Fingerprint())

	recs, err := permissive.Recommend(ctx, "X", 4)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	recs, err = strict.Recommend(ctx, "X", 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Y", recs[0].Anime.Title)
}

func TestCachedEngine_FingerprintTracksFiltersAndData(t *testing.T) {
	base := New(scenarioCatalog())
	assert.Equal(t, base.Fingerprint(), New(scenarioCatalog()).Fingerprint())

	blocked := New(scenarioCatalog(), WithFilters(filter.NewBlacklistFilter([]string{"Y"}, nil, "")))
	assert.NotEqual(t, base.Fingerprint(), blocked.Fingerprint())

	otherBlock := New(scenarioCatalog(), WithFilters(filter.NewBlacklistFilter([]string{"Z"}, nil, "")))
	assert.NotEqual(t, blocked.Fingerprint(), otherBlock.Fingerprint())

	expr, err := filter.NewExprFilter("anime.episodes <= 26")
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint(), New(scenarioCatalog(), WithFilters(expr)).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), New(scenarioCatalog(), WithAvoidMarker("risqué")).Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), New(scenarioCatalog(), WithDiversity(1)).Fingerprint())

	animes := []core.Anime{
		{Title: "X", CategoryTags: "Action / Drama", QualityScore: 9.0},
		{Title: "Y", CategoryTags: "Action", QualityScore: 8.5},
	}
	assert.NotEqual(t, base.Fingerprint(), New(catalog.New(animes)).Fingerprint())
}

func TestCachedEngine_SameConfigSharesEntries(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	a := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	b := NewCachedEngine(New(scenarioCatalog()), ms, 60)
	_, err := a.Recommend(ctx, "X", 4)
	require.NoError(t, err)

	_, err = ms.Get(ctx, b.cacheKey("X", 4))
	assert.NoError(t, err)
}
