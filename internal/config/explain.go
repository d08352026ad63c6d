package config

import (
	"fmt"
	"sort"
	"strings"
)

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths are the keys of the config file, for example:
//
//	backend
//	window.collapsed_width
//	placement.anchored_right
//	poll.control_ms
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	values := flatten(res.Config)
	value, ok := values[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown config path %q (known: %s)", path, strings.Join(KnownPaths(), ", "))
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// KnownPaths lists every path Explain accepts, sorted.
func KnownPaths() []string {
	values := flatten(DefaultConfig())
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func flatten(c *Config) map[string]any {
	return map[string]any{
		"backend":                     c.Backend,
		"helper_path":                 c.HelperPath,
		"renderer_url":                c.RendererURL,
		"window_title":                c.WindowTitle,
		"toggle_hotkey":               c.ToggleHotkey,
		"window.width":                c.Window.Width,
		"window.height":               c.Window.Height,
		"window.collapsed_width":      c.Window.CollapsedWidth,
		"placement.margin_horizontal": c.Placement.MarginHorizontal,
		"placement.margin_vertical":   c.Placement.MarginVertical,
		"placement.anchored_right":    c.Placement.AnchoredRight,
		"placement.anchored_bottom":   c.Placement.AnchoredBottom,
		"hysteresis_px":               c.HysteresisPx,
		"focus_pulse_ms":              c.FocusPulseMs,
		"poll.command_results_ms":     c.Poll.CommandResultsMs,
		"poll.control_ms":             c.Poll.ControlMs,
		"command.shell":               c.Command.Shell,
		"command.timeout_seconds":     c.Command.TimeoutSeconds,
		"log_level":                   c.LogLevel,
	}
}
