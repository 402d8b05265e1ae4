package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Error("nothing")
	logger.With(slog.String("k", "v")).Info("nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected %v, got %v", DefaultLevel, logger.Level())
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))

	logger.Trace("trace message")
	if !strings.Contains(buf.String(), "trace message") {
		t.Error("trace message not logged at trace level")
	}
	if !strings.Contains(buf.String(), `"level":"TRACE"`) {
		t.Errorf("expected TRACE level name, got: %s", buf.String())
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_WithCaller(t *testing.T) {
	tests := []struct {
		name   string
		enable bool
	}{
		{"enabled", true},
		{"disabled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithCaller(tt.enable), WithPretty(false))
			logger.Info("test message")

			got := strings.Contains(buf.String(), "log_test.go")
			if got != tt.enable {
				t.Errorf("caller present = %v, want %v: %s", got, tt.enable, buf.String())
			}
		})
	}
}

func TestLogger_WithFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "key=value") {
			t.Errorf("expected key=value, got: %s", output)
		}
	})
}

func TestLogger_Pretty_KeepsAttrs(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithFormat(format), WithPretty(true)).
				With(slog.String("request", "r-1"))
			logger.Info("hello", slog.Int("count", 3))

			output := buf.String()
			for _, want := range []string{"hello", "request", "r-1", "count", "3"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output: %s", want, output)
				}
			}
		})
	}
}

func TestLogger_With_DoesNotMutateReceiver(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithPretty(false))
	_ = base.With(slog.String("extra", "yes"))

	base.Info("plain")
	if strings.Contains(buf.String(), "extra") {
		t.Errorf("receiver gained attrs: %s", buf.String())
	}
}

func TestLogger_Wrap_Overrides(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError {
		t.Errorf("base level changed to %v", base.Level())
	}
	if wrapped.Level() != LevelDebug {
		t.Errorf("expected wrapped level debug, got %v", wrapped.Level())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithFormat(FormatText))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent", slog.Int("n", i))
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}
