// Package api 通过 HTTP 暴露推荐服务。
//
//	GET  /api/v1/titles                     可选标题
//	GET  /api/v1/titles/{title}             目标番剧详情
//	GET  /api/v1/recommendations?title=&n=  相似推荐，n 默认 4
//	POST /api/v1/recommendations/batch      批量推荐
//	GET  /api/v1/market                     公众评分 vs 质量分散点
//	GET  /healthz, /metrics
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/recommender"
)

const (
	// MaxTopN 是单次请求允许的最大结果数，与 recommendRequest 的校验 tag 保持一致
	MaxTopN = 100
	// MaxBatchTitles 是批量请求允许的最大标题数
	MaxBatchTitles = 50
)

// Server 是推荐服务的 HTTP 入口。
type Server struct {
	rec         recommender.Recommender
	logger      zerolog.Logger
	defaultTopN int
	validate    *validator.Validate
	registry    *prometheus.Registry
	metrics     *metrics
	router      chi.Router
}

// Option 配置 Server。
type Option func(*Server)

// WithLogger 设置日志。
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDefaultTopN 设置请求未携带 n 时的结果数，默认 core.DefaultTopN。
func WithDefaultTopN(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// New 创建 Server 并注册路由。
func New(rec recommender.Recommender, opts ...Option) *Server {
	s := &Server{
		rec:         rec,
		logger:      zerolog.Nop(),
		defaultTopN: core.DefaultTopN,
		validate:    validator.New(),
		registry:    prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.metrics = newMetrics(s.registry)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/titles", s.listTitles)
		r.Get("/titles/{title}", s.getTitle)
		r.Get("/recommendations", s.recommend)
		r.Post("/recommendations/batch", s.recommendBatch)
		r.Get("/market", s.market)
	})
	return r
}

// Handler 返回 http.Handler，便于挂载或测试。
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe 启动 HTTP 服务，ctx 取消时优雅退出。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
