package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"climate-api/internal/config"
)

func TestNew_releaseWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "climate-api")

	logger.Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{
		"msg":     "hello",
		"app":     "climate-api",
		"version": "1.2.3",
		"env":     "prod",
		"k":       "v",
	} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %q", key, rec[key], want)
		}
	}
}

func TestNew_respectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}, "1.2.3", "climate-api")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestNew_devUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelDebug}, "dev", "climate-api")

	logger.Debug("tinted", "k", "v")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("dev output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "tinted") || !strings.Contains(out, "k=v") {
		t.Fatalf("dev output = %q; want message and attrs", out)
	}
}
