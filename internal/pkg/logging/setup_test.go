package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLogger_FansOutToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "collector.log")
	var stdout bytes.Buffer
	cfg := &config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1}

	logger, err := setupLogger(cfg, "collector", &stdout)
	if err != nil {
		t.Fatalf("setupLogger() error = %v", err)
	}
	logger.Info("Page committed", "job", "tournaments", "items", 3)
	logger.Debug("hidden")

	if !strings.Contains(stdout.String(), "Page committed") || !strings.Contains(stdout.String(), "service=collector") {
		t.Errorf("stdout missing record: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "hidden") {
		t.Errorf("debug record leaked at info level")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, data)
	}
	if rec["job"] != "tournaments" || rec["service"] != "collector" {
		t.Errorf("unexpected JSON record: %v", rec)
	}
}
