package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/recommender"
)

type recommendRequest struct {
	Title string `validate:"required"`
	N     int    `validate:"gte=1,lte=100"`
}

type batchRequest struct {
	Titles []string `json:"titles" validate:"required,min=1,max=50,dive,required"`
	N      int      `json:"n" validate:"omitempty,gte=1,lte=100"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, map[string]any{"titles": len(s.rec.Titles())})
}

func (s *Server) listTitles(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, s.rec.Titles())
}

func (s *Server) getTitle(w http.ResponseWriter, r *http.Request) {
	// chi 在 RawPath 非空时按转义路径匹配，否则参数已是解码后的值
	title := chi.URLParam(r, "title")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(title)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, &APIError{Code: core.ErrorCodeInvalidInput, Message: "malformed title"})
			return
		}
		title = unescaped
	}
	a, err := s.rec.Lookup(title)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondData(w, newAnimeView(a))
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := recommendRequest{Title: q.Get("title"), N: s.defaultTopN}
	if raw := strings.TrimSpace(q.Get("n")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, &APIError{Code: core.ErrorCodeInvalidInput, Message: "n must be an integer"})
			return
		}
		req.N = n
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, &APIError{Code: core.ErrorCodeInvalidInput, Message: err.Error()})
		return
	}

	recs, err := s.rec.Recommend(r.Context(), req.Title, req.N)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.metrics.recommendations.Observe(float64(len(recs)))
	s.respondData(w, newRecommendationViews(recs))
}

func (s *Server) recommendBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, &APIError{Code: core.ErrorCodeInvalidInput, Message: "invalid JSON body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, &APIError{Code: core.ErrorCodeInvalidInput, Message: err.Error()})
		return
	}
	if req.N == 0 {
		req.N = s.defaultTopN
	}

	results, err := recommender.Batch(r.Context(), s.rec, req.Titles, req.N, 0)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	out := make([]BatchItemView, 0, len(results))
	for _, res := range results {
		item := BatchItemView{Title: res.Title, Recommendations: newRecommendationViews(res.Recommendations)}
		if res.Err != nil {
			_, item.Error = errorStatus(res.Err)
		} else {
			s.metrics.recommendations.Observe(float64(len(res.Recommendations)))
		}
		out = append(out, item)
	}
	s.respondData(w, out)
}

func (s *Server) market(w http.ResponseWriter, _ *http.Request) {
	s.respondData(w, s.rec.Market())
}
