package log

import (
	"bytes"
	"strings"
	"testing"
)

// TestSecureLoggerMasksSensitiveAttrs tests that credential-bearing
// attributes never reach the output.
func TestSecureLoggerMasksSensitiveAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"api_key attribute", "api_key", "sk-abc123def456ghi789"},
		{"authorization header", "authorization", "Bearer abc.def.ghi"},
		{"password attribute", "password", "hunter2"},
		{"token keyword in key", "provider_token", "some-value"},
		{"openai key by value pattern", "note", "sk-abcdefghijklmnopqrstuvwx"},
		{"bearer token by value pattern", "header", "Bearer xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)

			logger.Info("configured", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value %q leaked into log output: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in output: %s", out)
			}
		})
	}
}

// TestSecureLoggerPassesOrdinaryAttrs tests that harmless attributes
// survive unmodified.
func TestSecureLoggerPassesOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.Info("report loaded", "file", "week-1.html", "teams", 4)

	out := buf.String()
	if !strings.Contains(out, "week-1.html") {
		t.Errorf("expected file attribute in output: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("unexpected masking of ordinary attributes: %s", out)
	}
}

// TestSecureLoggerVerboseLevel tests level gating.
func TestSecureLoggerVerboseLevel(t *testing.T) {
	t.Parallel()

	t.Run("debug suppressed by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)

		logger.Debug("detail")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})

	t.Run("debug emitted in verbose mode", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, true)

		logger.Debug("detail")
		if buf.Len() == 0 {
			t.Error("expected debug output in verbose mode")
		}
	})
}
