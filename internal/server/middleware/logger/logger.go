// Package logger is the HTTP access log middleware.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

const (
	attrMethod   = "method"
	attrPath     = "path"
	attrClientIP = "client_ip"
	attrQuery    = "query"
	attrProtocol = "protocol"
	attrStatus   = "status"
	attrDuration = "duration"
	attrBodySize = "body_size"

	logMessage = "HTTP request"
)

// AccessLogger logs one line per request, at Warn for 4xx and Error for 5xx.
type AccessLogger struct {
	filter *logFilter
	logger *slog.Logger
}

// New returns an AccessLogger writing to handler, or nil when cfg disables it.
func New(cfg *config.AccessLog, handler slog.Handler) *AccessLogger {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &AccessLogger{
		filter: newLogFilter(cfg),
		logger: slog.New(handler).WithGroup("http"),
	}
}

// Middleware returns the middleware function
func (al *AccessLogger) Middleware() httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		r := rp.Request()
		if al.filter.ShouldSkip(r) {
			rp.Next()
			return
		}

		start := time.Now()
		rp.Next()
		al.log(r.Context(), r, rp.Writer(), time.Since(start))
	}
}

func (al *AccessLogger) log(ctx context.Context, r *http.Request, rw httpserver.ResponseWriter, d time.Duration) {
	status := rw.Status()
	if status == 0 {
		status = http.StatusOK
	}

	attrs := []slog.Attr{
		slog.String(attrMethod, r.Method),
		slog.String(attrPath, r.URL.Path),
		slog.String(attrClientIP, getClientIP(r)),
		slog.String(attrProtocol, r.Proto),
		slog.Int(attrStatus, status),
		slog.Duration(attrDuration, d),
		slog.Int(attrBodySize, rw.Size()),
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(attrQuery, r.URL.RawQuery))
	}

	al.logger.LogAttrs(ctx, levelFor(status), logMessage, attrs...)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
