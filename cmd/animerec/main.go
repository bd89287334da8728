// Command animerec 是相似番剧推荐的命令行与 HTTP 服务入口。
//
//	animerec [-config animerec.yaml] [-dataset animes.csv] recommend -title "Naruto" [-n 4] [-json]
//	animerec [-config animerec.yaml] titles
//	animerec [-config animerec.yaml] serve [-addr :8080]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/animerec/api"
	"github.com/rushteam/animerec/catalog"
	"github.com/rushteam/animerec/config"
	_ "github.com/rushteam/animerec/config/builders"
	"github.com/rushteam/animerec/core"
	"github.com/rushteam/animerec/filter"
	"github.com/rushteam/animerec/logging"
	"github.com/rushteam/animerec/pipeline"
	"github.com/rushteam/animerec/recommender"
	"github.com/rushteam/animerec/store"
)

const usage = `usage: animerec [-config file] [-dataset file] <command> [flags]

commands:
  recommend   recommend titles similar to -title
  titles      list selectable titles
  serve       start the HTTP API
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "animerec:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("animerec", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", os.Getenv("ANIMEREC_CONFIG"), "settings file (yaml)")
	datasetPath := global.String("dataset", "", "dataset CSV, overrides dataset.path")
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		return err
	}
	if *datasetPath != "" {
		settings.Dataset.Path = *datasetPath
	}
	logger := logging.New(logging.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: stderr,
	})

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "recommend":
		return runRecommend(ctx, settings, logger, cmdArgs, stdout, stderr)
	case "titles":
		return runTitles(ctx, settings, logger, stdout)
	case "serve":
		return runServe(ctx, settings, logger, cmdArgs, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return errUsage
	}
}

func runRecommend(ctx context.Context, s *config.Settings, logger zerolog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "target title")
	n := fs.Int("n", s.Recommend.DefaultTopN, "number of recommendations")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *title == "" {
		fmt.Fprintln(stderr, "recommend: -title is required")
		return errUsage
	}

	rec, closeFn, err := buildRecommender(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	recs, err := rec.Recommend(ctx, *title, *n)
	if err != nil {
		return err
	}
	if *asJSON {
		return json.NewEncoder(stdout).Encode(recs)
	}
	return printRecommendations(stdout, recs)
}

func runTitles(ctx context.Context, s *config.Settings, logger zerolog.Logger, stdout io.Writer) error {
	rec, closeFn, err := buildRecommender(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, t := range rec.Titles() {
		if _, err := fmt.Fprintln(stdout, t); err != nil {
			return err
		}
	}
	return nil
}

func runServe(ctx context.Context, s *config.Settings, logger zerolog.Logger, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", s.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rec, closeFn, err := buildRecommender(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	srv := api.New(rec,
		api.WithLogger(logger),
		api.WithDefaultTopN(s.Recommend.DefaultTopN),
	)
	return srv.ListenAndServe(ctx, *addr)
}

func printRecommendations(w io.Writer, recs []recommender.Recommendation) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no similar titles found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tSTUDIO\tSHARED\tQUALITY\tSCORE\tSEGMENT")
	for i, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.1f\t%.2f\t%s\n",
			i+1, r.Anime.Title, r.Anime.Studio, r.SharedCategories, r.Anime.QualityScore, r.FinalScore, r.Anime.EditorialSegment)
	}
	return tw.Flush()
}

// buildRecommender 按配置加载数据集、组装链路与缓存。返回的 close 函数释放缓存连接。
func buildRecommender(ctx context.Context, s *config.Settings, logger zerolog.Logger) (recommender.Recommender, func(), error) {
	cat, err := catalog.LoadCSV(s.Dataset.Path,
		catalog.WithDelimiter(s.Dataset.Delimiter),
		catalog.WithQualityColumn(s.Dataset.QualityColumn),
	)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().
		Str("path", s.Dataset.Path).
		Int("animes", cat.Len()).
		Int("categories", cat.Universe().Len()).
		Str("quality_column", cat.QualityColumn()).
		Msg("catalog loaded")

	kv, err := openStore(ctx, s.Cache)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if kv != nil {
			if err := kv.Close(); err != nil {
				logger.Warn().Err(err).Msg("close store")
			}
		}
	}

	opts := []recommender.Option{
		recommender.WithLogger(logger),
		recommender.WithAvoidMarker(s.Recommend.AvoidMarker),
	}

	var filters []filter.Filter
	if len(s.Recommend.ExcludedTitles) > 0 || s.Recommend.BlacklistKey != "" {
		var adapter *filter.StoreAdapter
		if kv != nil && s.Recommend.BlacklistKey != "" {
			adapter = filter.NewStoreAdapter(kv)
		} else if s.Recommend.BlacklistKey != "" {
			logger.Warn().Str("key", s.Recommend.BlacklistKey).Msg("blacklist_key ignored: no cache backend configured")
		}
		filters = append(filters, filter.NewBlacklistFilter(s.Recommend.ExcludedTitles, adapter, s.Recommend.BlacklistKey))
	}
	if s.Recommend.FilterExpr != "" {
		f, err := filter.NewExprFilter(s.Recommend.FilterExpr)
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("recommend.filter_expr: %w", err)
		}
		filters = append(filters, f)
	}
	opts = append(opts, recommender.WithFilters(filters...))

	if s.Recommend.PipelineFile != "" {
		cfg, err := pipeline.LoadFromYAML(s.Recommend.PipelineFile)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		p, err := config.BuildPipeline(cfg)
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("build pipeline %s: %w", s.Recommend.PipelineFile, err)
		}
		opts = append(opts, recommender.WithPipeline(p))
	}

	engine := recommender.New(cat, opts...)
	if kv == nil {
		return engine, closeFn, nil
	}
	cached := recommender.NewCachedEngine(engine, kv, s.Cache.TTLSeconds).WithPrefix(s.Cache.KeyPrefix)
	logger.Info().
		Str("store", kv.Name()).
		Str("prefix", cached.Prefix()).
		Str("fingerprint", engine.Fingerprint()).
		Msg("recommend cache enabled")
	return cached, closeFn, nil
}

func openStore(ctx context.Context, c config.CacheSettings) (core.Store, error) {
	switch c.Backend {
	case config.CacheMemory:
		return store.NewMemoryStore(), nil
	case config.CacheRedis:
		rs, err := store.NewRedisStore(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
		}
		return rs, nil
	default:
		return nil, nil
	}
}
