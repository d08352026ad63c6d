package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/tui"
)

func controlClient() *ipc.Client {
	return ipc.NewClient()
}

// runSimple handles the argument-less control subcommands.
func runSimple(name, summary string, args []string, call func() error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskpet %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	if err := call(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// wantJSON reports whether output should be JSON: when asked for, or when
// stdout is not a terminal.
func wantJSON(flagSet bool) bool {
	return flagSet || !term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpet status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC. Output is JSON when stdout is not a terminal.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := controlClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*jsonOut) {
		return writeJSON(os.Stdout, status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:     %v\n", s.DaemonRunning)
	fmt.Fprintf(w, "uptime_seconds:     %d\n", s.UptimeSeconds)
	fmt.Fprintf(w, "backend:            %s\n", s.Backend)
	fmt.Fprintf(w, "capabilities:       %s\n", formatCapabilities(s.Capabilities))
	fmt.Fprintf(w, "renderer_connected: %v\n", s.RendererConnected)
	fmt.Fprintf(w, "visible:            %v\n", s.Visible)
	fmt.Fprintf(w, "click_through:      %v\n", s.ClickThrough)
	fmt.Fprintf(w, "region_noops:       %d\n", s.RegionNoops)
	fmt.Fprintf(w, "drag_phase:         %s\n", s.DragPhase)
	fmt.Fprintf(w, "placement:          %s\n", formatPlacement(s.Placement))
	fmt.Fprintf(w, "quadrant:           %s\n", formatQuadrant(s.Quadrant))
}

func formatCapabilities(c ipc.CapabilitiesData) string {
	var parts []string
	if c.PartialInputRegion {
		parts = append(parts, "input-region")
	}
	if c.ClickThroughPerPixel {
		parts = append(parts, "per-pixel-click-through")
	}
	if c.AllWorkspaces {
		parts = append(parts, "all-workspaces")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func formatPlacement(p ipc.PlacementData) string {
	h, v := "left", "top"
	if p.AnchoredRight {
		h = "right"
	}
	if p.AnchoredBottom {
		v = "bottom"
	}
	return fmt.Sprintf("%s=%d %s=%d", h, p.MarginHorizontal, v, p.MarginVertical)
}

func formatQuadrant(q ipc.QuadrantData) string {
	if !q.Known {
		return "unknown"
	}
	v, h := "top", "left"
	if q.IsBottomHalf {
		v = "bottom"
	}
	if q.IsRightHalf {
		h = "right"
	}
	return v + "-" + h
}

func runQuadrant(args []string) int {
	fs := flag.NewFlagSet("quadrant", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpet quadrant [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the screen quadrant the pet occupies.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output quadrant as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "quadrant takes no arguments")
		fs.Usage()
		return 2
	}

	q, err := controlClient().GetQuadrant()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*jsonOut) {
		return writeJSON(os.Stdout, q)
	}
	fmt.Println(formatQuadrant(*q))
	return 0
}

func runClickThrough(args []string) int {
	fs := flag.NewFlagSet("click-through", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpet click-through on|off")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Make the whole pet window ignore or accept mouse input.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "click-through requires on or off")
		fs.Usage()
		return 2
	}
	enabled, ok := parseOnOff(fs.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid value %q (expected on or off)\n", fs.Arg(0))
		return 2
	}
	if err := controlClient().SetClickThrough(enabled); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseOnOff(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, true
	case "off", "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskpet watch [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live status dashboard with show/hide/click-through keys.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/deskpet/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
