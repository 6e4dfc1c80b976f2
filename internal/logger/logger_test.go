package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Info("test message")
	log.Debug("debug message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "hello") {
		t.Fatalf("expected 'hello' in output, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Fatalf("expected level INFO in output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")

	if buf.Len() > 0 {
		t.Fatalf("expected no output for info/debug at warn level, got: %s", buf.String())
	}

	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelInfo)
	log.Info("plain message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "plain message") {
		t.Fatalf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Fatalf("expected key=value in output, got: %s", output)
	}
}

func TestPretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelDebug)
	log.Debug("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Fatalf("expected 'test message' in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Fatalf("expected 'key=value' in output, got: %s", output)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		Build("json", "debug", &buf).Debug("built")
		if !strings.Contains(buf.String(), `"msg":"built"`) {
			t.Fatalf("expected JSON output, got: %s", buf.String())
		}
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		Build("pretty", "info", &buf).Info("built")
		if !strings.Contains(buf.String(), colorReset) {
			t.Fatalf("expected colored output, got: %q", buf.String())
		}
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		var buf bytes.Buffer
		Build("carrier-pigeon", "info", &buf).Info("built", "key", "value")
		out := buf.String()
		if !strings.Contains(out, "key=value") || strings.Contains(out, colorReset) {
			t.Fatalf("expected plain text output, got: %q", out)
		}
	})

	t.Run("level applies", func(t *testing.T) {
		var buf bytes.Buffer
		Build("text", "error", &buf).Warn("dropped")
		if buf.Len() > 0 {
			t.Fatalf("expected warn to be filtered at error level, got: %s", buf.String())
		}
	})
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	childLog := log.With("component", "test")
	childLog.Info("child message")

	output := buf.String()
	if !strings.Contains(output, `"component":"test"`) {
		t.Fatalf("expected component=test in output, got: %s", output)
	}
	if !strings.Contains(output, "child message") {
		t.Fatalf("expected 'child message' in output, got: %s", output)
	}
}

func TestWithGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	groupLog := log.WithGroup("mygroup")
	groupLog.Info("grouped message", "field", "val")

	if !strings.Contains(buf.String(), "grouped message") {
		t.Fatalf("expected 'grouped message' in output, got: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()
	log := FromContext(context.Background())
	if log == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
	log.Info("from context")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip test")

	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("expected warn to be enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("service", "test")}))
	logger.Info("with attrs")

	if !strings.Contains(buf.String(), "service=test") {
		t.Fatalf("expected 'service=test' in output, got: %s", buf.String())
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewPrettyHandler(&buf, nil).WithGroup("mygroup"))
		logger.Info("grouped", "key", "val")
		if !strings.Contains(buf.String(), "mygroup.key=val") {
			t.Fatalf("expected 'mygroup.key=val' in output, got: %s", buf.String())
		}
	})

	t.Run("nested", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewPrettyHandler(&buf, nil).WithGroup("a").WithGroup("b"))
		logger.Info("nested", "key", "val")
		if !strings.Contains(buf.String(), "a.b.key=val") {
			t.Fatalf("expected 'a.b.key=val' in output, got: %s", buf.String())
		}
	})

	t.Run("empty returns same handler", func(t *testing.T) {
		h := NewPrettyHandler(&bytes.Buffer{}, nil)
		if h.WithGroup("") != slog.Handler(h) {
			t.Fatal("WithGroup empty string should return same handler")
		}
	})
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()

	t.Run("spaces are quoted", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewPrettyHandler(&buf, nil)).Info("test", "msg", "hello world")
		if !strings.Contains(buf.String(), `msg="hello world"`) {
			t.Fatalf("expected quoted string with spaces, got: %s", buf.String())
		}
	})

	t.Run("simple strings stay bare", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewPrettyHandler(&buf, nil)).Info("test", "key", "simple")
		out := buf.String()
		if !strings.Contains(out, "key=simple") || strings.Contains(out, `key="simple"`) {
			t.Fatalf("simple strings should not be quoted, got: %s", out)
		}
	})
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{"has\nnewline", true},
		{`has"quote`, true},
		{"", false},
		{"no-special-chars", false},
	}

	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.expected {
			t.Errorf("needsQuoting(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}
