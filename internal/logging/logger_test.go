package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/skills-cli/internal/logging"
)

// useDefault installs a buffered logger as the default for one test.
func useDefault(t *testing.T, opts logging.Options) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	opts.Output = &buf
	prev := logging.Default()
	logging.SetDefault(logging.New(opts))
	t.Cleanup(func() { logging.SetDefault(prev) })
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_Formats(t *testing.T) {
	tests := map[string]struct {
		json bool
		want []string
	}{
		"text": {want: []string{"msg=\"packaged skill\"", "skill=pdf-tools", "count=3"}},
		"json": {json: true, want: []string{`"msg":"packaged skill"`, `"skill":"pdf-tools"`, `"count":3`}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: tt.json})
			logger.Info("packaged skill", logging.Skill("pdf-tools"), logging.Count(3))

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestDefaultOptions_HidesCommandChatter(t *testing.T) {
	opts := logging.DefaultOptions()
	if opts.Level != logging.LevelWarn || opts.JSON || opts.AddSource {
		t.Fatalf("DefaultOptions() = %+v", opts)
	}

	buf := useDefault(t, opts)
	logging.Debug("installing", logging.Source("github.com/acme/skills"))
	logging.Info("packaged skill", logging.Skill("pdf-tools"))
	logging.Warn("skipping skill", logging.Path("/skills/broken"))

	out := buf.String()
	if strings.Contains(out, "installing") || strings.Contains(out, "packaged skill") {
		t.Errorf("debug and info lines should be filtered: %q", out)
	}
	if !strings.Contains(out, "skipping skill") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestAttributes(t *testing.T) {
	tests := map[string]struct {
		attr slog.Attr
		key  string
		want any
	}{
		"skill":     {attr: logging.Skill("pdf-tools"), key: logging.KeySkill, want: "pdf-tools"},
		"path":      {attr: logging.Path("/home/u/.claude/skills"), key: logging.KeyPath, want: "/home/u/.claude/skills"},
		"source":    {attr: logging.Source("https://github.com/acme/skills"), key: logging.KeySource, want: "https://github.com/acme/skills"},
		"operation": {attr: logging.Operation("put"), key: logging.KeyOperation, want: "put"},
		"count":     {attr: logging.Count(4), key: logging.KeyCount, want: float64(4)},
		"url":       {attr: logging.URL("https://api.anthropic.com/v1/skills"), key: logging.KeyURL, want: "https://api.anthropic.com/v1/skills"},
		"status":    {attr: logging.Status(404), key: logging.KeyStatus, want: float64(404)},
		"format":    {attr: logging.Format("markdown"), key: logging.KeyFormat, want: "markdown"},
		"error":     {attr: logging.Err(errors.New("boom")), key: logging.KeyError, want: "boom"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf, JSON: true})
			logger.Debug("event", tt.attr)

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("got %d entries", len(entries))
			}
			if got := entries[0][tt.key]; got != tt.want {
				t.Errorf("%s = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestErr_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true})
	logger.Info("published", logging.Skill("demo"), logging.Err(nil))

	entry := decodeLines(t, &buf)[0]
	if _, ok := entry[logging.KeyError]; ok {
		t.Errorf("nil error should not be logged: %v", entry)
	}
	if entry[logging.KeySkill] != "demo" {
		t.Errorf("skill = %v", entry[logging.KeySkill])
	}
}

func TestWithContext(t *testing.T) {
	fallback := useDefault(t, logging.Options{Level: logging.LevelInfo})

	var scoped bytes.Buffer
	ctx := logging.NewContext(context.Background(), logging.New(logging.Options{Level: logging.LevelInfo, Output: &scoped}))

	if logging.FromContext(context.Background()) != nil {
		t.Error("FromContext() on a bare context should be nil")
	}

	logging.WithContext(ctx).Info("downloading", logging.URL("https://github.com/acme/skills"))
	logging.WithContext(context.Background()).Info("listing", logging.Operation("list"))

	if !strings.Contains(scoped.String(), "downloading") || strings.Contains(scoped.String(), "listing") {
		t.Errorf("context logger output = %q", scoped.String())
	}
	if !strings.Contains(fallback.String(), "operation=list") || strings.Contains(fallback.String(), "downloading") {
		t.Errorf("default logger output = %q", fallback.String())
	}
}

func TestWith(t *testing.T) {
	buf := useDefault(t, logging.Options{Level: logging.LevelInfo, JSON: true})

	logging.With(logging.Operation("install")).Info("installed", logging.Skill("pdf"))
	logging.Error("install failed", logging.Skill("docx"))

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0][logging.KeyOperation] != "install" || entries[0][logging.KeySkill] != "pdf" {
		t.Errorf("child logger entry = %v", entries[0])
	}
	if _, ok := entries[1][logging.KeyOperation]; ok || entries[1]["level"] != "ERROR" {
		t.Errorf("package-level entry = %v", entries[1])
	}
}
