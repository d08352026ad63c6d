package config

import (
	"fmt"
	"strings"
)

// ValidationError points at the config key that failed and, when known, the
// file position it was set at.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = strings.ToLower(strings.TrimSpace(*raw.Backend))
	}
	if raw.HelperPath != nil {
		path, err := expandHome(strings.TrimSpace(*raw.HelperPath))
		if err != nil {
			return nil, &ValidationError{Path: "helper_path", Err: err}
		}
		cfg.HelperPath = path
	}
	if raw.RendererURL != nil {
		cfg.RendererURL = strings.TrimSpace(*raw.RendererURL)
	}
	if raw.WindowTitle != nil {
		cfg.WindowTitle = *raw.WindowTitle
	}
	if raw.ToggleHotkey != nil {
		cfg.ToggleHotkey = strings.TrimSpace(*raw.ToggleHotkey)
	}
	if raw.Window != nil {
		if raw.Window.Width != nil {
			cfg.Window.Width = *raw.Window.Width
		}
		if raw.Window.Height != nil {
			cfg.Window.Height = *raw.Window.Height
		}
		if raw.Window.CollapsedWidth != nil {
			cfg.Window.CollapsedWidth = *raw.Window.CollapsedWidth
		}
	}
	if raw.Placement != nil {
		if raw.Placement.MarginHorizontal != nil {
			cfg.Placement.MarginHorizontal = *raw.Placement.MarginHorizontal
		}
		if raw.Placement.MarginVertical != nil {
			cfg.Placement.MarginVertical = *raw.Placement.MarginVertical
		}
		if raw.Placement.AnchoredRight != nil {
			cfg.Placement.AnchoredRight = *raw.Placement.AnchoredRight
		}
		if raw.Placement.AnchoredBottom != nil {
			cfg.Placement.AnchoredBottom = *raw.Placement.AnchoredBottom
		}
	}
	if raw.HysteresisPx != nil {
		cfg.HysteresisPx = *raw.HysteresisPx
	}
	if raw.FocusPulseMs != nil {
		cfg.FocusPulseMs = *raw.FocusPulseMs
	}
	if raw.Poll != nil {
		if raw.Poll.CommandResultsMs != nil {
			cfg.Poll.CommandResultsMs = *raw.Poll.CommandResultsMs
		}
		if raw.Poll.ControlMs != nil {
			cfg.Poll.ControlMs = *raw.Poll.ControlMs
		}
	}
	if raw.Command != nil {
		if raw.Command.Shell != nil {
			cfg.Command.Shell = strings.TrimSpace(*raw.Command.Shell)
		}
		if raw.Command.TimeoutSeconds != nil {
			cfg.Command.TimeoutSeconds = *raw.Command.TimeoutSeconds
		}
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warning" {
			level = "warn"
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
