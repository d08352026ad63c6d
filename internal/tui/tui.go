// Package tui is the interactive dashboard behind `deskpet watch`.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/ipc"
)

// Controller is the subset of the IPC client the dashboard drives.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	Show() error
	Hide() error
	Toggle() error
	SetClickThrough(enabled bool) error
	Reload() error
}

const refreshInterval = time.Second

// Run starts the dashboard and blocks until the user quits.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m := newModel(ipc.NewClient(), loadConfig(configPath))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// loadConfig keeps a load error for the config tab to show.
func loadConfig(path string) configView {
	var res *config.LoadResult
	var err error
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	return configView{result: res, err: err}
}

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type actionMsg struct {
	action string
	err    error
}

type tickMsg time.Time

func fetchStatus(c Controller) tea.Cmd {
	return func() tea.Msg {
		s, err := c.GetStatus()
		return statusMsg{status: s, err: err}
	}
}

func runAction(name string, call func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: name, err: call()}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
