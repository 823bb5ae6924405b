package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"llmbridge/internal/config"
)

// Init 初始化全局日志
func Init(cfg *config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// 时间格式同时作用于 JSON 字段和 console 输出，
	// Unix/UnixMs 是数值时间戳，console 退回易读格式
	consoleTimeFormat := time.RFC3339
	switch cfg.TimeFormat {
	case "Unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		consoleTimeFormat = time.Kitchen
	case "UnixMs":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
		consoleTimeFormat = time.Kitchen
	case "", "RFC3339":
		zerolog.TimeFieldFormat = time.RFC3339
	default:
		// 任意 Go 时间布局
		zerolog.TimeFieldFormat = cfg.TimeFormat
		consoleTimeFormat = cfg.TimeFormat
	}

	var output io.Writer = os.Stdout
	if cfg.Output == "file" && cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		output = file
	}

	// Console 格式对开发环境友好
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: consoleTimeFormat,
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	return nil
}

// Get 获取全局 logger
func Get() zerolog.Logger {
	return log.Logger
}
