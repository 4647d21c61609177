package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"igbatch/pkg/config"
)

func bufferLogger(buf *bytes.Buffer) *zerologLogger {
	zlog := zerolog.New(buf).Level(zerolog.DebugLevel)
	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "loud"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "igbatch.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewWithWriter(tt.cfg, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestFileOutputReceivesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "igbatch.log")
	l, err := NewWithWriter(&config.LoggingConfig{Level: "info", File: path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	l.WithField("username", "alice").Info("Scraping account")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"username":"alice"`) {
		t.Errorf("log file missing field, got %s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf)

	l.WithField("username", "alice").
		WithFields(map[string]interface{}{"posts": 4, "private": false}).
		WithError(errors.New("boom")).
		Warn("chained")

	output := buf.String()
	for _, want := range []string{`"username":"alice"`, `"posts":4`, `"private":false`, `"error":"boom"`, "chained"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q missing %s", output, want)
		}
	}
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf)
	if l.WithError(nil) != Logger(l) {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf)

	l.InfoWithFields("typed", map[string]interface{}{
		"duration": 5 * time.Second,
		"when":     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"names":    []string{"a", "b"},
		"cause":    errors.New("bad"),
	})

	output := buf.String()
	if !strings.Contains(output, `"names":["a","b"]`) {
		t.Errorf("string slice not encoded, got %s", output)
	}
	if !strings.Contains(output, `"cause":"bad"`) {
		t.Errorf("error field not encoded, got %s", output)
	}
}

func TestLogRequestLevels(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "/api/v1/users/web_profile_info/", 200, time.Millisecond)
	LogRequest(tl, "GET", "/api/v1/users/web_profile_info/", 404, time.Millisecond)
	LogRequest(tl, "GET", "/graphql/query/", 502, time.Millisecond)

	if got := len(tl.GetMessagesByLevel("DEBUG")); got != 1 {
		t.Errorf("expected 1 debug message, got %d", got)
	}
	if got := len(tl.GetMessagesByLevel("WARN")); got != 1 {
		t.Errorf("expected 1 warn message, got %d", got)
	}
	if !tl.HasError() {
		t.Error("expected an error message for a 5xx response")
	}
}

func TestTestLoggerSharesMessages(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("username", "bob").WithError(errors.New("gone"))
	child.Info("Profile does not exist")

	msgs := tl.GetMessages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Fields["username"] != "bob" || msgs[0].Error == nil {
		t.Errorf("unexpected captured message %+v", msgs[0])
	}

	tl.Clear()
	if len(tl.GetMessages()) != 0 {
		t.Error("Clear() should drop captured messages")
	}
}
