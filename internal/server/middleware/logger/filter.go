package logger

import (
	"net/http"
	"strings"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

// logFilter pre-computes the path and method filters
type logFilter struct {
	methodInclude map[string]bool
	methodExclude map[string]bool
	pathInclude   []string
	pathExclude   []string
}

func newLogFilter(cfg *config.AccessLog) *logFilter {
	return &logFilter{
		methodInclude: upperSet(cfg.IncludeOnlyMethods),
		methodExclude: upperSet(cfg.ExcludeMethods),
		pathInclude:   cfg.IncludeOnlyPaths,
		pathExclude:   cfg.ExcludePaths,
	}
}

func upperSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = true
	}
	return set
}

// ShouldSkip determines if request should be logged
func (lf *logFilter) ShouldSkip(r *http.Request) bool {
	return lf.skipMethod(r.Method) || lf.skipPath(r.URL.Path)
}

// skipMethod returns true if the method should be skipped from logging.
// A non-empty include list takes precedence.
func (lf *logFilter) skipMethod(method string) bool {
	method = strings.ToUpper(method)
	if len(lf.methodInclude) > 0 {
		return !lf.methodInclude[method]
	}
	return lf.methodExclude[method]
}

// skipPath returns true if the path should be skipped from logging.
// Excludes apply after includes.
func (lf *logFilter) skipPath(path string) bool {
	if len(lf.pathInclude) > 0 && !hasAnyPrefix(path, lf.pathInclude) {
		return true
	}
	return hasAnyPrefix(path, lf.pathExclude)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// getClientIP extracts client IP from request headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
