package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/animerec/core"
)

// EnvPrefix 是环境变量前缀，ANIMEREC_RECOMMEND_AVOID_MARKER -> recommend.avoid_marker。
const EnvPrefix = "ANIMEREC_"

// 缓存后端
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Settings 是应用级配置（数据集、推荐参数、缓存、服务与日志）。
// Pipeline 的节点编排走 pipeline.Config，这里只引用其文件路径。
type Settings struct {
	Dataset   DatasetSettings   `koanf:"dataset"`
	Recommend RecommendSettings `koanf:"recommend"`
	Cache     CacheSettings     `koanf:"cache"`
	Server    ServerSettings    `koanf:"server"`
	Log       LogSettings       `koanf:"log"`
}

type DatasetSettings struct {
	Path          string `koanf:"path"`
	Delimiter     string `koanf:"delimiter"`
	QualityColumn string `koanf:"quality_column"`
}

type RecommendSettings struct {
	DefaultTopN    int      `koanf:"default_top_n"`
	AvoidMarker    string   `koanf:"avoid_marker"`
	PipelineFile   string   `koanf:"pipeline_file"`
	ExcludedTitles []string `koanf:"excluded_titles"`
	BlacklistKey   string   `koanf:"blacklist_key"`
	FilterExpr     string   `koanf:"filter_expr"`
}

type CacheSettings struct {
	Backend       string `koanf:"backend"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	TTLSeconds    int    `koanf:"ttl_seconds"`
	KeyPrefix     string `koanf:"key_prefix"`
}

type ServerSettings struct {
	Addr string `koanf:"addr"`
}

type LogSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultSettings 返回内置默认值。
func DefaultSettings() *Settings {
	return &Settings{
		Dataset: DatasetSettings{
			Path:      "animes.csv",
			Delimiter: core.DefaultCategoryDelimiter,
		},
		Recommend: RecommendSettings{
			DefaultTopN: core.DefaultTopN,
			AvoidMarker: core.DefaultAvoidMarker,
		},
		Cache: CacheSettings{
			Backend:    CacheNone,
			RedisAddr:  "localhost:6379",
			TTLSeconds: 300,
			KeyPrefix:  "animerec:rec",
		},
		Server: ServerSettings{Addr: ":8080"},
		Log:    LogSettings{Level: "info", Format: "json"},
	}
}

// 环境变量只能给出逗号分隔的字符串，这些路径需要拆成切片
var sliceSettingPaths = []string{
	"recommend.excluded_titles",
}

// LoadSettings 按 默认值 -> YAML 文件（path 非空时）-> 环境变量 的优先级加载配置。
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

// Validate 校验配置取值。avoid_marker 允许为空（关闭分段过滤）。
func (s *Settings) Validate() error {
	if s.Recommend.DefaultTopN <= 0 {
		return core.NewInvalidArgumentError(core.ModuleRecommend, "recommend.default_top_n must be positive")
	}
	if s.Dataset.Delimiter == "" {
		return core.NewInvalidArgumentError(core.ModuleCatalog, "dataset.delimiter must not be empty")
	}
	switch s.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if s.Cache.RedisAddr == "" {
			return core.NewInvalidArgumentError(core.ModuleStore, "cache.redis_addr is required for redis backend")
		}
	default:
		return core.NewInvalidArgumentError(core.ModuleStore, fmt.Sprintf("unknown cache.backend %q", s.Cache.Backend))
	}
	if s.Cache.TTLSeconds < 0 {
		return core.NewInvalidArgumentError(core.ModuleStore, "cache.ttl_seconds must not be negative")
	}
	return nil
}

// envTransformFunc: ANIMEREC_CACHE_REDIS_ADDR -> cache.redis_addr。
// 只有第一段是配置分组，其余下划线保留在字段名里。
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceSettingPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
