package logger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"llmbridge/internal/config"
)

func TestInitAppliesLevelAndTimeFormat(t *testing.T) {
	cfg := &config.LogConfig{
		Level:      "debug",
		Format:     "json",
		TimeFormat: "2006-01-02 15:04:05",
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}
	// 自定义布局直接生效，不再固定 RFC3339
	if zerolog.TimeFieldFormat != "2006-01-02 15:04:05" {
		t.Errorf("time format = %q, want configured layout", zerolog.TimeFieldFormat)
	}
}

func TestInitUnixTimeFormat(t *testing.T) {
	cfg := &config.LogConfig{Level: "info", Format: "console", TimeFormat: "Unix"}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if zerolog.TimeFieldFormat != zerolog.TimeFormatUnix {
		t.Errorf("time format = %q, want unix timestamp", zerolog.TimeFieldFormat)
	}
}

func TestInitInvalidLevelFallsBack(t *testing.T) {
	cfg := &config.LogConfig{Level: "chatty", Format: "json", TimeFormat: "RFC3339"}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", zerolog.GlobalLevel())
	}
	if zerolog.TimeFieldFormat != time.RFC3339 {
		t.Errorf("time format = %q, want RFC3339", zerolog.TimeFieldFormat)
	}
}
