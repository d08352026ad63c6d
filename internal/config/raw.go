package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowConfig struct {
	Width          *int `yaml:"width"`
	Height         *int `yaml:"height"`
	CollapsedWidth *int `yaml:"collapsed_width"`
}

type RawPlacementConfig struct {
	MarginHorizontal *int  `yaml:"margin_horizontal"`
	MarginVertical   *int  `yaml:"margin_vertical"`
	AnchoredRight    *bool `yaml:"anchored_right"`
	AnchoredBottom   *bool `yaml:"anchored_bottom"`
}

type RawPollConfig struct {
	CommandResultsMs *int `yaml:"command_results_ms"`
	ControlMs        *int `yaml:"control_ms"`
}

type RawCommandConfig struct {
	Shell          *string `yaml:"shell"`
	TimeoutSeconds *int    `yaml:"timeout_seconds"`
}

// RawConfig is one YAML file as written. Nil fields were not set.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Backend      *string             `yaml:"backend"`
	HelperPath   *string             `yaml:"helper_path"`
	RendererURL  *string             `yaml:"renderer_url"`
	WindowTitle  *string             `yaml:"window_title"`
	ToggleHotkey *string             `yaml:"toggle_hotkey"`
	Window       *RawWindowConfig    `yaml:"window"`
	Placement    *RawPlacementConfig `yaml:"placement"`
	HysteresisPx *int                `yaml:"hysteresis_px"`
	FocusPulseMs *int                `yaml:"focus_pulse_ms"`
	Poll         *RawPollConfig      `yaml:"poll"`
	Command      *RawCommandConfig   `yaml:"command"`
	LogLevel     *string             `yaml:"log_level"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.HelperPath != nil {
		out.HelperPath = overlay.HelperPath
	}
	if overlay.RendererURL != nil {
		out.RendererURL = overlay.RendererURL
	}
	if overlay.WindowTitle != nil {
		out.WindowTitle = overlay.WindowTitle
	}
	if overlay.ToggleHotkey != nil {
		out.ToggleHotkey = overlay.ToggleHotkey
	}
	if overlay.Window != nil {
		merged := mergeRawWindow(out.Window, *overlay.Window)
		out.Window = &merged
	}
	if overlay.Placement != nil {
		merged := mergeRawPlacement(out.Placement, *overlay.Placement)
		out.Placement = &merged
	}
	if overlay.HysteresisPx != nil {
		out.HysteresisPx = overlay.HysteresisPx
	}
	if overlay.FocusPulseMs != nil {
		out.FocusPulseMs = overlay.FocusPulseMs
	}
	if overlay.Poll != nil {
		merged := RawPollConfig{}
		if out.Poll != nil {
			merged = *out.Poll
		}
		if overlay.Poll.CommandResultsMs != nil {
			merged.CommandResultsMs = overlay.Poll.CommandResultsMs
		}
		if overlay.Poll.ControlMs != nil {
			merged.ControlMs = overlay.Poll.ControlMs
		}
		out.Poll = &merged
	}
	if overlay.Command != nil {
		merged := RawCommandConfig{}
		if out.Command != nil {
			merged = *out.Command
		}
		if overlay.Command.Shell != nil {
			merged.Shell = overlay.Command.Shell
		}
		if overlay.Command.TimeoutSeconds != nil {
			merged.TimeoutSeconds = overlay.Command.TimeoutSeconds
		}
		out.Command = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	return out
}

func mergeRawWindow(base *RawWindowConfig, overlay RawWindowConfig) RawWindowConfig {
	out := RawWindowConfig{}
	if base != nil {
		out = *base
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.CollapsedWidth != nil {
		out.CollapsedWidth = overlay.CollapsedWidth
	}
	return out
}

func mergeRawPlacement(base *RawPlacementConfig, overlay RawPlacementConfig) RawPlacementConfig {
	out := RawPlacementConfig{}
	if base != nil {
		out = *base
	}
	if overlay.MarginHorizontal != nil {
		out.MarginHorizontal = overlay.MarginHorizontal
	}
	if overlay.MarginVertical != nil {
		out.MarginVertical = overlay.MarginVertical
	}
	if overlay.AnchoredRight != nil {
		out.AnchoredRight = overlay.AnchoredRight
	}
	if overlay.AnchoredBottom != nil {
		out.AnchoredBottom = overlay.AnchoredBottom
	}
	return out
}
