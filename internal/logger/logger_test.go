package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), tt.level+".log")
			opts := DefaultOptions(file)
			opts.Level = tt.level
			opts.Compress = false

			log := New(opts)
			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")
			log.Sync()

			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			text := string(content)

			for _, want := range tt.expected {
				if !strings.Contains(text, want) {
					t.Errorf("expected %s in output", want)
				}
			}
			for _, not := range tt.excluded {
				if strings.Contains(text, not) {
					t.Errorf("unexpected %s in output for level %s", not, tt.level)
				}
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("/tmp/x.log")
	if opts.File != "/tmp/x.log" {
		t.Errorf("expected path kept, got %q", opts.File)
	}
	if opts.Level != "info" {
		t.Errorf("expected info, got %q", opts.Level)
	}
	if opts.MaxSizeMB == 0 || opts.MaxBackups == 0 || opts.MaxAgeDays == 0 {
		t.Error("expected non-zero rotation defaults")
	}
	if !opts.Compress {
		t.Error("expected compression on by default")
	}
}

func TestConsoleOnly(t *testing.T) {
	log := New(Options{Level: "info"})
	log.Info("console message")
	// No file configured; just exercising the console core.
}
