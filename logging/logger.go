// Package logging 基于 zerolog 构建应用日志。
//
// 推荐链路的 Node 本身不打日志，日志只出现在 recommender / api / cmd 层。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error，默认 info
	Level string

	// Format: json 或 console，默认 json
	Format string

	// Output 默认 os.Stderr
	Output io.Writer
}

// New 根据配置创建 Logger。不修改 zerolog 的全局级别。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "animerec").
		Logger()
}

// ParseLevel 解析日志级别，空值或无法识别时回退到 info。
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
