package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/ipc"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabStatus Tab = iota
	TabConfig
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabStatus:
		return "Status"
	case TabConfig:
		return "Config"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(20)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(bar)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

func renderStatusBar(connected bool, s *ipc.StatusData, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected", "backend:" + s.Backend}
		if !s.RendererConnected {
			parts = append(parts, "renderer disconnected")
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderHelpBar(lastEvent string, width int) string {
	help := "s: show  h: hide  t: toggle  c: click-through  r: reload  tab: switch  q: quit"
	if lastEvent != "" {
		help = lastEvent + "  |  " + help
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// quadrantLabel names the quadrant the way the CLI prints it.
func quadrantLabel(q ipc.QuadrantData) string {
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

func placementLabel(p ipc.PlacementData) string {
	h, v := "left", "top"
	if p.AnchoredRight {
		h = "right"
	}
	if p.AnchoredBottom {
		v = "bottom"
	}
	return fmt.Sprintf("%s %dpx, %s %dpx", h, p.MarginHorizontal, v, p.MarginVertical)
}

func renderStatusTab(s *ipc.StatusData, err error, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1)
	if err != nil {
		return box.Render(errorStyle.Render(err.Error()) + "\n\n" +
			mutedStyle.Render("Start the daemon with 'deskpet daemon'."))
	}
	if s == nil {
		return box.Render(mutedStyle.Render("Waiting for daemon..."))
	}

	lines := []string{
		row("visible", onOff(s.Visible)),
		row("click-through", onOff(s.ClickThrough)),
		row("quadrant", quadrantLabel(s.Quadrant)),
		row("placement", placementLabel(s.Placement)),
		row("drag", s.DragPhase),
		row("renderer", onOff(s.RendererConnected)),
		row("uptime", fmt.Sprintf("%ds", s.UptimeSeconds)),
		"",
		row("input region", onOff(s.Capabilities.PartialInputRegion)),
		row("per-pixel clicks", onOff(s.Capabilities.ClickThroughPerPixel)),
		row("all workspaces", onOff(s.Capabilities.AllWorkspaces)),
	}
	if s.RegionNoops > 0 {
		lines = append(lines, row("region no-ops", fmt.Sprintf("%d", s.RegionNoops)))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func renderConfigTab(cv configView, width, height int) string {
	box := lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1)
	if cv.err != nil {
		return box.Render(errorStyle.Render(cv.err.Error()))
	}
	if cv.result == nil {
		return box.Render(mutedStyle.Render("No configuration loaded."))
	}

	keyStyle := labelStyle.Width(30)
	var lines []string
	for _, f := range cv.result.Files {
		lines = append(lines, mutedStyle.Render("# loaded: "+f))
	}
	for _, path := range config.KnownPaths() {
		value, src, err := config.Explain(cv.result, path)
		if err != nil {
			continue
		}
		origin := "default"
		if src.Kind == config.SourceFile && src.Line > 0 {
			origin = fmt.Sprintf("line %d", src.Line)
		}
		lines = append(lines, keyStyle.Render(path)+fmt.Sprintf("%v  ", value)+mutedStyle.Render(origin))
	}
	return box.Render(strings.Join(lines, "\n"))
}
