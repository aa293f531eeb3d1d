package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"unknown": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for input, expected := range cases {
		if got := parseLevel(input); got != expected {
			t.Errorf("parseLevel(%q): expected %v, got %v", input, expected, got)
		}
	}
}

func TestInitWithFileOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "splatc.log")

	if err := InitWithFileConfig("debug", DefaultFileConfig(logPath), false); err != nil {
		t.Fatalf("InitWithFileConfig failed: %v", err)
	}

	Log.Info("test entry")
	Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to contain the entry")
	}
}

func TestInitWithoutFile(t *testing.T) {
	if err := Init("info", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Log == nil || Sugar == nil {
		t.Error("expected global loggers to be set")
	}
}
