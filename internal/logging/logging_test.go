package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/cubes/internal/config"
)

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LogConfig{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer closeFn()

	logger.Info("game over", "score", 300)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "cubes") || !strings.Contains(out, "game over") {
		t.Errorf("log output missing prefix or message: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %q", out)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cubes.log")
	var buf bytes.Buffer

	logger, closeFn, err := New(config.LogConfig{Level: "debug", File: path}, &buf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Debug("spawn", "kind", "T")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "spawn") {
		t.Errorf("log file missing entry: %q", data)
	}
	if buf.Len() != 0 {
		t.Errorf("fallback writer used despite log file: %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("New() accepted an unknown level")
	}
}
