// Package logging 基于 zerolog 构建结构化日志。
//
//	logger, closer, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	defer closer.Close()
//	logger.Info().Int64("user_id", uid).Msg("ranked")
//
// 设置 File 时输出写入文件并由 lumberjack 滚动；否则写到 Output（默认 stderr）。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error, disabled；默认 info
	Level string `mapstructure:"level"`

	// Format: json 或 console；默认 json
	Format string `mapstructure:"format"`

	// File 日志文件路径，为空时不写文件
	File string `mapstructure:"file"`

	// 文件滚动参数，<= 0 时使用默认值
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`

	// Output 非文件模式下的输出，默认 os.Stderr
	Output io.Writer `mapstructure:"-"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 按配置创建 logger。返回的 io.Closer 用于关闭日志文件。
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	var (
		out    io.Writer = cfg.Output
		closer io.Closer = nopCloser{}
	)
	if out == nil {
		out = os.Stderr
	}

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    defaultInt(cfg.MaxSizeMB, 100),
			MaxBackups: defaultInt(cfg.MaxBackups, 5),
			MaxAge:     defaultInt(cfg.MaxAgeDays, 7),
			Compress:   true,
		}
		out = lj
		closer = lj
	} else if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "vidrec").
		Logger()
	return logger, closer, nil
}

// ParseLevel 把字符串转为 zerolog.Level，无法识别时返回 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Nop 返回丢弃所有输出的 logger，供测试与未配置日志的组件使用。
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
