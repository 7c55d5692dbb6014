package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{name: "custom json config", config: &Config{Level: "debug", Format: "json"}},
		{name: "console config", config: &Config{Level: "info", Format: "console", Output: io.Discard}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, New(tt.config))
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "info", Format: "json", Output: buf})

	logger.Info("test message")

	entry := decode(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "info", Format: "json", Output: buf})

	logger.With().
		Str("service", "chococrunch").
		Int("port", 8080).
		Logger().
		Info("server started")

	entry := decode(t, buf)
	assert.Equal(t, "chococrunch", entry["service"])
	assert.Equal(t, float64(8080), entry["port"])
	assert.Equal(t, "server started", entry["message"])
}

func TestLogger_ErrorWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "error", Format: "json", Output: buf})

	logger.ErrorWith("query failed", errors.New("table doesn't exist"), map[string]any{
		"domain": "nutrient",
		"label":  "3. Count products with fat_value > 20g",
	})

	entry := decode(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "query failed", entry["message"])
	assert.Equal(t, "table doesn't exist", entry["error"])
	assert.Equal(t, "nutrient", entry["domain"])
}

func TestLogger_Context(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "info", Format: "json", Output: buf})

	ctx := logger.WithContext(context.Background())
	FromContext(ctx).Info("from context")

	assert.Equal(t, "from context", decode(t, buf)["message"])
}

func TestLogger_FromContextFallsBackToGlobal(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := global
	SetGlobal(New(&Config{Level: "info", Format: "json", Output: buf}))
	t.Cleanup(func() { SetGlobal(prev) })

	FromContext(context.Background()).Info("global")

	assert.Equal(t, "global", decode(t, buf)["message"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFunc  func(*Logger)
		expected bool // should log or not
	}{
		{"debug level logs debug", "debug", func(l *Logger) { l.Debug("debug message") }, true},
		{"info level skips debug", "info", func(l *Logger) { l.Debug("debug message") }, false},
		{"error level logs error", "error", func(l *Logger) { l.Error("error message") }, true},
		{"error level skips info", "error", func(l *Logger) { l.Info("info message") }, false},
		{"warn level logs warn", "WARN", func(l *Logger) { l.Warn("warn message") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(New(&Config{Level: tt.level, Format: "json", Output: buf}))

			if tt.expected {
				assert.NotEmpty(t, buf.String(), "expected log output")
			} else {
				assert.Empty(t, buf.String(), "expected no log output")
			}
		})
	}
}

func TestMiddleware_LogsRequest(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{Level: "info", Format: "json", Output: buf})

	h := logger.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, FromContext(r.Context()))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/tabs/product?q=5", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := decode(t, buf)
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/tabs/product", entry["path"])
	assert.Equal(t, "q=5", entry["query"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(15), entry["bytes"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Info("discarded") })
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := New(&Config{Level: "info", Format: "json", Output: io.Discard})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}
