package config

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/atlanticdynamic/lynxeval/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("lynxeval config (%s)", cfg.Version)))

	logging := fancy.Tree().Root(fancy.HeaderStyle.Render("Logging"))
	logging.Child(fancy.KeyValue("level", cfg.Logging.Level))
	logging.Child(fancy.KeyValue("format", cfg.Logging.Format))
	logging.Child(fancy.KeyValue("output", cfg.Logging.Output))
	t.Child(logging)

	h := cfg.HTTP
	httpTree := fancy.BranchNode("HTTP", fancy.ListenerText(h.Address))
	httpTree.Child(fancy.KeyValue("read_timeout", h.ReadTimeout))
	httpTree.Child(fancy.KeyValue("write_timeout", h.WriteTimeout))
	httpTree.Child(fancy.KeyValue("idle_timeout", h.IdleTimeout))
	httpTree.Child(fancy.KeyValue("drain_timeout", h.DrainTimeout))
	httpTree.Child(fancy.KeyValue("max_body_bytes", h.MaxBodyBytes))
	httpTree.Child(fancy.KeyValue("metrics", h.Metrics))
	httpTree.Child(fancy.KeyValue("mcp", h.MCP))

	accessLog := fancy.BranchNode("Access log", onOff(h.AccessLog.Enabled))
	if h.AccessLog.Enabled {
		addList(accessLog, "include_only_paths", h.AccessLog.IncludeOnlyPaths)
		addList(accessLog, "exclude_paths", h.AccessLog.ExcludePaths)
		addList(accessLog, "include_only_methods", h.AccessLog.IncludeOnlyMethods)
		addList(accessLog, "exclude_methods", h.AccessLog.ExcludeMethods)
	}
	httpTree.Child(accessLog)
	httpTree.Child(h.Headers.ToTree())
	t.Child(httpTree)

	limits := fancy.Tree().Root(fancy.HeaderStyle.Render("Limits"))
	limits.Child(fancy.KeyValue("max_steps", unboundedIfZero(strconv.FormatUint(cfg.Limits.MaxSteps, 10), cfg.Limits.MaxSteps == 0)))
	limits.Child(fancy.KeyValue("timeout", unboundedIfZero(cfg.Limits.Timeout.String(), cfg.Limits.Timeout == 0)))
	limits.Child(fancy.KeyValue("max_concurrent", unboundedIfZero(strconv.FormatInt(cfg.Limits.MaxConcurrent, 10), cfg.Limits.MaxConcurrent == 0)))
	limits.Child(fancy.KeyValue("session_log_records", unboundedIfZero(strconv.Itoa(cfg.Limits.SessionLogRecords), cfg.Limits.SessionLogRecords == 0)))
	t.Child(limits)

	languages := fancy.BranchNode("Languages", fmt.Sprintf("(%d enabled)", len(cfg.EnabledLanguages())))
	for _, name := range sortedKeys(cfg.Languages) {
		lang := cfg.Languages[name]
		node := fancy.BranchNode(fancy.LanguageText(name), onOff(lang.IsEnabled()))
		if lang.PreludeURI != "" {
			node.Child(fancy.KeyValue("prelude", fancy.PathText(lang.PreludeURI)))
		}
		languages.Child(node)
	}
	t.Child(languages)

	return t.String()
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func unboundedIfZero(s string, zero bool) string {
	if zero {
		return "unbounded"
	}
	return s
}

func addList(parent *tree.Tree, name string, values []string) {
	if len(values) == 0 {
		return
	}
	parent.Child(fancy.KeyValue(name, values))
}
