package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/animerec/catalog"
	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/recommender"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.New([]core.Anime{
		{Title: "X", CategoryTags: "Action / Drama", QualityScore: 9.0, EditorialSegment: "Très bon", Studio: "Bones", EpisodeCount: 24},
		{Title: "Y", CategoryTags: "Action", QualityScore: 8.0, EditorialSegment: "Chef-d'œuvre", Studio: "Madhouse", EpisodeCount: 12},
		{Title: "Z", CategoryTags: "Comedy", QualityScore: 9.5, EditorialSegment: "Très bon"},
		{Title: "W", CategoryTags: "Action", QualityScore: 7.0, EditorialSegment: "À éviter"},
		{Title: "Fate/Zero", CategoryTags: "Action / Fantasy", QualityScore: 8.4, EditorialSegment: "Risqué"},
	})
	ts := httptest.NewServer(New(recommender.New(cat)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *APIError       `json:"error"`
}

func get(t *testing.T, ts *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRecommendations(t *testing.T) {
	ts := newTestServer(t)

	status, env := get(t, ts, "/api/v1/recommendations?title=X")
	require.Equal(t, http.StatusOK, status)
	var recs []RecommendationView
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "Fate/Zero", recs[0].Title)
	assert.Equal(t, "Y", recs[1].Title)
	assert.Equal(t, 1, recs[1].SharedCategories)
	assert.InDelta(t, 9.0, recs[1].FinalScore, 1e-9)
	assert.Equal(t, core.TierTop, recs[1].Tier)
	assert.Equal(t, "Action", recs[1].PrimaryCategory)

	status, env = get(t, ts, "/api/v1/recommendations?title=X&n=1")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Len(t, recs, 1)
}

func TestRecommendations_EmptyResult(t *testing.T) {
	ts := newTestServer(t)
	status, env := get(t, ts, "/api/v1/recommendations?title=Z&n=4")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRecommendations_Errors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown title", "/api/v1/recommendations?title=Nope", http.StatusNotFound, core.ErrorCodeNotFound},
		{"missing title", "/api/v1/recommendations", http.StatusBadRequest, core.ErrorCodeInvalidInput},
		{"zero n", "/api/v1/recommendations?title=X&n=0", http.StatusBadRequest, core.ErrorCodeInvalidInput},
		{"negative n", "/api/v1/recommendations?title=X&n=-2", http.StatusBadRequest, core.ErrorCodeInvalidInput},
		{"non numeric n", "/api/v1/recommendations?title=X&n=abc", http.StatusBadRequest, core.ErrorCodeInvalidInput},
		{"n too large", "/api/v1/recommendations?title=X&n=1000", http.StatusBadRequest, core.ErrorCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := get(t, ts, tt.path)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestTitles(t *testing.T) {
	ts := newTestServer(t)

	status, env := get(t, ts, "/api/v1/titles")
	require.Equal(t, http.StatusOK, status)
	var titles []string
	require.NoError(t, json.Unmarshal(env.Data, &titles))
	assert.Equal(t, []string{"X", "Y", "Z", "W", "Fate/Zero"}, titles)

	status, env = get(t, ts, "/api/v1/titles/Y")
	require.Equal(t, http.StatusOK, status)
	var a AnimeView
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "Madhouse", a.Studio)

	status, env = get(t, ts, "/api/v1/titles/Fate%2FZero")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, "Fate/Zero", a.Title)
	assert.Equal(t, core.TierCaution, a.Tier)

	status, _ = get(t, ts, "/api/v1/titles/Nope")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTitles_EscapedCharacters(t *testing.T) {
	cat := catalog.New([]core.Anime{
		{Title: "100%", CategoryTags: "Comedy", QualityScore: 7.5, EditorialSegment: "Bon"},
		{Title: "50%/50%", CategoryTags: "Drama", QualityScore: 6.0, EditorialSegment: "Bon"},
	})
	ts := httptest.NewServer(New(recommender.New(cat)).Handler())
	t.Cleanup(ts.Close)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/titles/100%25", "100%"},
		{"/api/v1/titles/50%25%2F50%25", "50%/50%"},
	}
	for _, tt := range tests {
		status, env := get(t, ts, tt.path)
		require.Equal(t, http.StatusOK, status, tt.path)
		var a AnimeView
		require.NoError(t, json.Unmarshal(env.Data, &a))
		assert.Equal(t, tt.want, a.Title, tt.path)
	}
}

func TestMarketAndHealth(t *testing.T) {
	ts := newTestServer(t)

	status, env := get(t, ts, "/api/v1/market")
	require.Equal(t, http.StatusOK, status)
	var points []catalog.QualityPoint
	require.NoError(t, json.Unmarshal(env.Data, &points))
	assert.Len(t, points, 5)

	status, env = get(t, ts, "/healthz")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"titles":5}`, string(env.Data))
}

func TestRecommendBatch(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/recommendations/batch", "application/json",
		strings.NewReader(`{"titles":["X","Nope"],"n":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var items []BatchItemView
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "X", items[0].Title)
	require.Len(t, items[0].Recommendations, 1)
	assert.Nil(t, items[0].Error)
	require.NotNil(t, items[1].Error)
	assert.Equal(t, core.ErrorCodeNotFound, items[1].Error.Code)

	for _, body := range []string{`{"titles":[]}`, `{"titles":[""]}`, `not json`, `{"titles":["X"],"n":-1}`} {
		resp, err := http.Post(ts.URL+"/api/v1/recommendations/batch", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, _ = get(t, ts, "/api/v1/recommendations?title=X")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `animerec_http_requests_total{method="GET",route="/api/v1/recommendations",status="200"} 1`)
	assert.Contains(t, string(body), "animerec_recommendations_returned")
}
