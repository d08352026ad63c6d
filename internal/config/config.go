package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskpet/internal/placement"
)

// Backend names accepted by the backend key.
const (
	BackendAuto    = "auto"
	BackendWayland = "wayland"
	BackendX11     = "x11"
	BackendWindows = "windows"
	BackendMacOS   = "macos"
)

// Defaults for the pet window.
const (
	DefaultWindowWidth    = 740
	DefaultWindowHeight   = 600
	DefaultCollapsedWidth = 160
	DefaultMargin         = 20
	DefaultHysteresisPx   = 50
	DefaultFocusPulseMs   = 50
	DefaultCommandPollMs  = 10
	DefaultControlPollMs  = 50
	DefaultCommandTimeout = 300
	DefaultWindowTitle    = "deskpet"
)

// WindowConfig sizes the pet window. Widths above CollapsedWidth mean the
// chat panel is open.
type WindowConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	CollapsedWidth int `yaml:"collapsed_width"`
}

// PlacementConfig is the startup placement.
type PlacementConfig struct {
	MarginHorizontal int  `yaml:"margin_horizontal"`
	MarginVertical   int  `yaml:"margin_vertical"`
	AnchoredRight    bool `yaml:"anchored_right"`
	AnchoredBottom   bool `yaml:"anchored_bottom"`
}

// PollConfig sets how often the host loop drains worker channels.
type PollConfig struct {
	CommandResultsMs int `yaml:"command_results_ms"`
	ControlMs        int `yaml:"control_ms"`
}

// CommandConfig controls shell commands requested by the renderer.
type CommandConfig struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config is the effective configuration used by the daemon.
type Config struct {
	// Backend selects the overlay backend: auto, wayland, x11, windows, macos
	Backend string `yaml:"backend"`
	// HelperPath overrides renderer helper discovery
	HelperPath string `yaml:"helper_path,omitempty"`
	// RendererURL is passed to the helper as the page to load
	RendererURL string `yaml:"renderer_url,omitempty"`
	// WindowTitle is used to find the helper window on X11 when realize
	// carries no window id
	WindowTitle string `yaml:"window_title"`
	// ToggleHotkey is an X11 key sequence (e.g. "Mod4-Shift-p") that shows
	// or hides the pet. Empty disables it.
	ToggleHotkey string          `yaml:"toggle_hotkey,omitempty"`
	Window       WindowConfig    `yaml:"window"`
	Placement    PlacementConfig `yaml:"placement"`
	HysteresisPx int             `yaml:"hysteresis_px"`
	FocusPulseMs int             `yaml:"focus_pulse_ms"`
	Poll         PollConfig      `yaml:"poll"`
	Command      CommandConfig   `yaml:"command"`
	LogLevel     string          `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:     BackendAuto,
		WindowTitle: DefaultWindowTitle,
		Window: WindowConfig{
			Width:          DefaultWindowWidth,
			Height:         DefaultWindowHeight,
			CollapsedWidth: DefaultCollapsedWidth,
		},
		Placement: PlacementConfig{
			MarginHorizontal: DefaultMargin,
			MarginVertical:   DefaultMargin,
			AnchoredRight:    true,
			AnchoredBottom:   true,
		},
		HysteresisPx: DefaultHysteresisPx,
		FocusPulseMs: DefaultFocusPulseMs,
		Poll: PollConfig{
			CommandResultsMs: DefaultCommandPollMs,
			ControlMs:        DefaultControlPollMs,
		},
		Command: CommandConfig{
			Shell:          defaultShell(),
			TimeoutSeconds: DefaultCommandTimeout,
		},
		LogLevel: "info",
	}
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}

// InitialPlacement returns the configured startup placement.
func (c *Config) InitialPlacement() placement.Placement {
	return placement.Placement{
		MarginHorizontal: c.Placement.MarginHorizontal,
		MarginVertical:   c.Placement.MarginVertical,
		AnchoredRight:    c.Placement.AnchoredRight,
		AnchoredBottom:   c.Placement.AnchoredBottom,
	}
}

// WindowSize returns the expanded window size.
func (c *Config) WindowSize() placement.Size {
	return placement.Size{Width: c.Window.Width, Height: c.Window.Height}
}

func (c *Config) FocusPulse() time.Duration {
	return time.Duration(c.FocusPulseMs) * time.Millisecond
}

func (c *Config) CommandPollInterval() time.Duration {
	return time.Duration(c.Poll.CommandResultsMs) * time.Millisecond
}

func (c *Config) ControlPollInterval() time.Duration {
	return time.Duration(c.Poll.ControlMs) * time.Millisecond
}

// CommandTimeout returns zero when commands may run forever.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Command.TimeoutSeconds) * time.Second
}

// SlogLevel maps log_level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendWayland, BackendX11, BackendWindows, BackendMacOS:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, wayland, x11, windows, macos")}
	}
	if strings.TrimSpace(c.WindowTitle) == "" {
		return &ValidationError{Path: "window_title", Err: fmt.Errorf("window_title is required")}
	}
	if c.Window.Width <= 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Window.Height <= 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Window.CollapsedWidth <= 0 || c.Window.CollapsedWidth > c.Window.Width {
		return &ValidationError{Path: "window.collapsed_width", Err: fmt.Errorf("collapsed_width must be > 0 and <= window.width")}
	}
	if c.Placement.MarginHorizontal < 0 {
		return &ValidationError{Path: "placement.margin_horizontal", Err: fmt.Errorf("margin_horizontal must be >= 0")}
	}
	if c.Placement.MarginVertical < 0 {
		return &ValidationError{Path: "placement.margin_vertical", Err: fmt.Errorf("margin_vertical must be >= 0")}
	}
	if c.HysteresisPx < 0 {
		return &ValidationError{Path: "hysteresis_px", Err: fmt.Errorf("hysteresis_px must be >= 0")}
	}
	if c.FocusPulseMs <= 0 {
		return &ValidationError{Path: "focus_pulse_ms", Err: fmt.Errorf("focus_pulse_ms must be > 0")}
	}
	if c.Poll.CommandResultsMs <= 0 {
		return &ValidationError{Path: "poll.command_results_ms", Err: fmt.Errorf("command_results_ms must be > 0")}
	}
	if c.Poll.ControlMs <= 0 {
		return &ValidationError{Path: "poll.control_ms", Err: fmt.Errorf("control_ms must be > 0")}
	}
	if strings.TrimSpace(c.Command.Shell) == "" {
		return &ValidationError{Path: "command.shell", Err: fmt.Errorf("shell is required")}
	}
	if c.Command.TimeoutSeconds < 0 {
		return &ValidationError{Path: "command.timeout_seconds", Err: fmt.Errorf("timeout_seconds must be >= 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	if c.HelperPath != "" {
		if _, err := os.Stat(c.HelperPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("helper_path %q does not exist; discovery will fall back to the search path", c.HelperPath))
		}
	}
	if c.HysteresisPx > c.Window.Width {
		warnings = append(warnings, fmt.Sprintf("hysteresis_px %d is wider than the window; quadrant changes will be rare", c.HysteresisPx))
	}
	return warnings
}
