package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "debug",
		Dir:      tmpDir,
		Filename: "test.log",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("plain message")
	logger.InfoTag("HTTP", "server started on :%d", 8080)
	logger.Error("something failed: %v", "boom")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	for _, want := range []string{"plain message", "[HTTP] server started on :8080", "something failed: boom"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestFormatLog(t *testing.T) {
	tests := []struct {
		tag      string
		message  string
		expected string
	}{
		{"HTTP", "request handled", "[HTTP] request handled"},
		{"", "no tag", "no tag"},
		{"Auth", "[Auth] already tagged", "[Auth] already tagged"},
	}

	for _, tt := range tests {
		if got := FormatLog(tt.tag, tt.message); got != tt.expected {
			t.Errorf("FormatLog(%q, %q) = %q, want %q", tt.tag, tt.message, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := New(Config{
		Level:    "warn",
		Dir:      tmpDir,
		Filename: "filtered.log",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("hidden debug")
	logger.Warn("visible warn")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "filtered.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden debug") {
		t.Error("debug entry should be filtered at warn level")
	}
	if !strings.Contains(content, "visible warn") {
		t.Error("warn entry missing from log file")
	}
}
