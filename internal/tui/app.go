package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/ipc"
)

type configView struct {
	result *config.LoadResult
	err    error
}

// model is the root bubbletea model for the dashboard.
type model struct {
	client Controller
	config configView

	activeTab Tab

	// Daemon state
	status    *ipc.StatusData
	statusErr error
	lastEvent string

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Controller, cfg configView) model {
	return model{
		client:    client,
		config:    cfg,
		activeTab: TabStatus,
	}
}

func (m model) connected() bool {
	return m.statusErr == nil && m.status != nil
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchStatus(m.client), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchStatus(m.client), tick())

	case statusMsg:
		m.status = msg.status
		m.statusErr = msg.err
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.lastEvent = msg.action + " failed: " + msg.err.Error()
		} else {
			m.lastEvent = msg.action + ": ok"
		}
		return m, fetchStatus(m.client)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	case "1":
		m.activeTab = TabStatus
		return m, nil
	case "2":
		m.activeTab = TabConfig
		return m, nil
	}

	// Control keys need a running daemon.
	if !m.connected() {
		return m, nil
	}
	switch msg.String() {
	case "s":
		return m, runAction("show", m.client.Show)
	case "h":
		return m, runAction("hide", m.client.Hide)
	case "t", " ":
		return m, runAction("toggle", m.client.Toggle)
	case "c":
		enable := !m.status.ClickThrough
		return m, runAction("click-through", func() error { return m.client.SetClickThrough(enable) })
	case "r":
		return m, runAction("reload", m.client.Reload)
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected(), m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.lastEvent, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabStatus:
		content = renderStatusTab(m.status, m.statusErr, m.width, contentHeight)
	case TabConfig:
		content = renderConfigTab(m.config, m.width, contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
