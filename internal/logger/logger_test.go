package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/fridgeview/internal/config"
)

// readEntries parses every JSON line in a log file.
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func levels(entries []map[string]any) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e["level"].(string))
	}
	return out
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level string
		want  []string
	}{
		{level: "error", want: []string{"error"}},
		{level: "warn", want: []string{"warn", "error"}},
		{level: "info", want: []string{"info", "warn", "error"}},
		{level: "", want: []string{"info", "warn", "error"}},
		{level: "debug", want: []string{"debug", "info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, "level-"+tt.level+".log")
			if err := Setup(Options{Level: tt.level, File: logFile, Rotation: DefaultRotation}); err != nil {
				t.Fatalf("Setup: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			got := levels(readEntries(t, logFile))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("levels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelChangesAtRuntime(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "runtime.log")
	if err := Setup(Options{Level: "warn", File: logFile}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Info("dropped")
	Level().SetLevel(zapcore.DebugLevel)
	Debug("kept")

	entries := readEntries(t, logFile)
	if len(entries) != 1 || entries[0]["msg"] != "kept" {
		t.Errorf("entries = %v, want only the debug entry", entries)
	}
}

func TestNamedLoggerWritesComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := Setup(Options{Level: "info", File: logFile, Rotation: DefaultRotation}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Named("assets").Info("model cached")

	entries := readEntries(t, logFile)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["logger"] != "assets" {
		t.Errorf("logger = %v, want assets", entries[0]["logger"])
	}
	if entries[0]["msg"] != "model cached" {
		t.Errorf("msg = %v, want %q", entries[0]["msg"], "model cached")
	}
}

func TestSetSessionTagsEntries(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "session.log")
	if err := Setup(Options{Level: "info", File: logFile}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	SetSession("6f1c")
	Info("frame")
	Named("viewer").Info("tap")

	for _, e := range readEntries(t, logFile) {
		if e["session"] != "6f1c" {
			t.Errorf("entry %v missing session", e)
		}
	}
}

func TestInitFromConfig(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "fridgeview.log")
	if err := Init(config.LoggingConfig{Level: "warn", LogFile: logFile}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Info("hidden")
	Warn("shown")

	entries := readEntries(t, logFile)
	if len(entries) != 1 || entries[0]["msg"] != "shown" {
		t.Errorf("entries = %v, want only the warning", entries)
	}
	if Level().Level() != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", Level().Level())
	}
}

func TestLoggerUsableBeforeSetup(t *testing.T) {
	Log.Info("before init")
	Named("early").Debug("still fine")
}
