package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, home string) *slog.Logger {
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(newHandler(base, home))
}

// TestHandler_ShortensHomePaths tests that the home prefix is replaced with "~".
func TestHandler_ShortensHomePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "path under home is shortened",
			value: "/home/alice/results/ListOfCountriesByGDP.pdf",
			want:  "path=~/results/ListOfCountriesByGDP.pdf",
		},
		{
			name:  "home itself becomes tilde",
			value: "/home/alice",
			want:  "path=~",
		},
		{
			name:  "sibling directory with shared prefix is untouched",
			value: "/home/alice2/report.pdf",
			want:  "path=/home/alice2/report.pdf",
		},
		{
			name:  "path outside home is untouched",
			value: "/tmp/report.pdf",
			want:  "path=/tmp/report.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			newTestLogger(&buf, "/home/alice/").Info("report written", "path", tt.value)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, buf.String())
			}
		})
	}
}

// TestHandler_MasksCredentials tests that credentials never reach the output.
func TestHandler_MasksCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		key    string
		value  string
		secret string
	}{
		{name: "authorization header", key: "Authorization", value: "hunter2", secret: "hunter2"},
		{name: "cookie header", key: "cookie", value: "session=abc123", secret: "abc123"},
		{name: "bearer value under any key", key: "header", value: "Bearer abc.def", secret: "abc.def"},
		{name: "basic auth value", key: "header", value: "Basic dXNlcjpwYXNz", secret: "dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			newTestLogger(&buf, "").Info("request", tt.key, tt.value)
			if strings.Contains(buf.String(), tt.secret) {
				t.Errorf("secret leaked: %q", buf.String())
			}
			if !strings.Contains(buf.String(), MaskValue) {
				t.Errorf("expected mask in %q", buf.String())
			}
		})
	}
}

func TestHandler_KeepsDigests(t *testing.T) {
	t.Parallel()

	digest := strings.Repeat("ab12", 16)
	var buf bytes.Buffer
	newTestLogger(&buf, "").Info("report written", "digest", digest)
	if !strings.Contains(buf.String(), digest) {
		t.Errorf("digest was rewritten: %q", buf.String())
	}
}

func TestHandler_GroupsAndWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestLogger(&buf, "/home/alice").
		With("output", "/home/alice/out.pdf").
		WithGroup("req")
	logger.Info("served", slog.Group("headers", slog.String("authorization", "Bearer x")))

	out := buf.String()
	if !strings.Contains(out, "output=~/out.pdf") {
		t.Errorf("WithAttrs value not shortened: %q", out)
	}
	if strings.Contains(out, "Bearer x") {
		t.Errorf("grouped credential leaked: %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level hides info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewLogger(&buf, Options{}).Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("verbose logs debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewLogger(&buf, Options{Verbose: true}).Debug("shown")
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("expected debug output, got %q", buf.String())
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		NewLogger(&buf, Options{JSON: true}).Warn("careful", "count", 3)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v: %q", err, buf.String())
		}
		if entry["msg"] != "careful" {
			t.Errorf("unexpected msg %v", entry["msg"])
		}
		if entry["count"] != float64(3) {
			t.Errorf("unexpected count %v", entry["count"])
		}
	})
}
