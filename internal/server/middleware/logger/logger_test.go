package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

type logLine struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	HTTP  struct {
		Method   string `json:"method"`
		Path     string `json:"path"`
		ClientIP string `json:"client_ip"`
		Query    string `json:"query"`
		Status   int    `json:"status"`
		BodySize int    `json:"body_size"`
	} `json:"http"`
}

func serve(t *testing.T, al *AccessLogger, method, target string, status int, body string) {
	t.Helper()
	route, err := httpserver.NewRouteFromHandlerFunc("api", "/",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, err := w.Write([]byte(body))
			assert.NoError(t, err)
		}, al.Middleware())
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.10:40000"
	route.ServeHTTP(httptest.NewRecorder(), req)
}

func readLines(t *testing.T, buf *bytes.Buffer) []logLine {
	t.Helper()
	var lines []logLine
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line logLine
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestNew(t *testing.T) {
	t.Parallel()
	assert.Nil(t, New(nil, nil))
	assert.Nil(t, New(&config.AccessLog{Enabled: false}, nil))
	assert.NotNil(t, New(&config.AccessLog{Enabled: true}, nil))
}

func TestAccessLogger_Middleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			al := New(&config.AccessLog{Enabled: true}, h)

			serve(t, al, http.MethodPost, "/eval/abc/starlark?trace=1", tt.status, `{"success":true}`)

			lines := readLines(t, &buf)
			require.Len(t, lines, 1)
			line := lines[0]
			assert.Equal(t, tt.level, line.Level)
			assert.Equal(t, logMessage, line.Msg)
			assert.Equal(t, http.MethodPost, line.HTTP.Method)
			assert.Equal(t, "/eval/abc/starlark", line.HTTP.Path)
			assert.Equal(t, "trace=1", line.HTTP.Query)
			assert.Equal(t, "192.0.2.10", line.HTTP.ClientIP)
			assert.Equal(t, tt.status, line.HTTP.Status)
			assert.Equal(t, len(`{"success":true}`), line.HTTP.BodySize)
		})
	}
}

func TestAccessLogger_SkipsFilteredRequests(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	al := New(&config.AccessLog{
		Enabled:        true,
		ExcludePaths:   []string{"/metrics"},
		ExcludeMethods: []string{"OPTIONS"},
	}, slog.NewJSONHandler(&buf, nil))

	serve(t, al, http.MethodGet, "/metrics", http.StatusOK, "ok")
	serve(t, al, http.MethodOptions, "/new", http.StatusNoContent, "")
	assert.Empty(t, buf.String())

	serve(t, al, http.MethodPost, "/new", http.StatusOK, `"id"`)
	assert.Len(t, readLines(t, &buf), 1)
}

func TestLevelFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelInfo, levelFor(204))
	assert.Equal(t, slog.LevelInfo, levelFor(304))
	assert.Equal(t, slog.LevelWarn, levelFor(400))
	assert.Equal(t, slog.LevelWarn, levelFor(499))
	assert.Equal(t, slog.LevelError, levelFor(503))
}
