package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/recommender"
)

// Response 是统一的响应信封。
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError 是错误响应体，Code 与 core.DomainError 的错误码一致。
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnimeView 是番剧的展示形态，附带主类别与分段等级。
type AnimeView struct {
	Title            string    `json:"title"`
	CategoryTags     string    `json:"category_tags"`
	PrimaryCategory  string    `json:"primary_category"`
	QualityScore     float64   `json:"quality_score"`
	EditorialSegment string    `json:"editorial_segment"`
	Tier             core.Tier `json:"tier"`
	PublicRating     float64   `json:"public_rating"`
	Studio           string    `json:"studio"`
	EpisodeCount     int       `json:"episode_count"`
}

// RecommendationView 是一条推荐结果的展示形态。
type RecommendationView struct {
	AnimeView
	SharedCategories int     `json:"shared_categories"`
	FinalScore       float64 `json:"final_score"`
}

// BatchItemView 是批量推荐中单个标题的结果。
type BatchItemView struct {
	Title           string               `json:"title"`
	Recommendations []RecommendationView `json:"recommendations"`
	Error           *APIError            `json:"error,omitempty"`
}

func newAnimeView(a *core.Anime) AnimeView {
	return AnimeView{
		Title:            a.Title,
		CategoryTags:     a.CategoryTags,
		PrimaryCategory:  a.PrimaryCategory(),
		QualityScore:     a.QualityScore,
		EditorialSegment: a.EditorialSegment,
		Tier:             core.SegmentTier(a.EditorialSegment),
		PublicRating:     a.PublicRating,
		Studio:           a.Studio,
		EpisodeCount:     a.EpisodeCount,
	}
}

func newRecommendationViews(recs []recommender.Recommendation) []RecommendationView {
	out := make([]RecommendationView, 0, len(recs))
	for i := range recs {
		out = append(out, RecommendationView{
			AnimeView:        newAnimeView(&recs[i].Anime),
			SharedCategories: recs[i].SharedCategories,
			FinalScore:       recs[i].FinalScore,
		})
	}
	return out
}

// errorStatus 把领域错误映射为 HTTP 状态码。
func errorStatus(err error) (int, *APIError) {
	if de := core.GetDomainError(err); de != nil {
		switch de.Code {
		case core.ErrorCodeNotFound:
			return http.StatusNotFound, &APIError{Code: de.Code, Message: de.Message}
		case core.ErrorCodeInvalidInput:
			return http.StatusBadRequest, &APIError{Code: de.Code, Message: de.Message}
		}
	}
	return http.StatusInternalServerError, &APIError{Code: core.ErrorCodeInternalError, Message: "internal error"}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug().Err(err).Msg("failed to write response")
	}
}

func (s *Server) respondData(w http.ResponseWriter, data any) {
	s.respondJSON(w, http.StatusOK, &Response{Status: "success", Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, status int, apiErr *APIError) {
	s.respondJSON(w, status, &Response{Status: "error", Error: apiErr})
}

func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.respondError(w, status, apiErr)
}
