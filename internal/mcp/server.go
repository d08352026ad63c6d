// Package mcp exposes the running pet to MCP clients. Every tool is a thin
// wrapper over the daemon's control socket.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/sysinfo"
)

const (
	ServerName    = "deskpet"
	ServerVersion = "0.1.0"
)

// Controller is the subset of the IPC client the tools use.
type Controller interface {
	Show() error
	Hide() error
	Toggle() error
	SetClickThrough(enabled bool) error
	GetStatus() (*ipc.StatusData, error)
	GetQuadrant() (*ipc.QuadrantData, error)
}

// Prober answers the system_info tool.
type Prober interface {
	Probe(ctx context.Context) sysinfo.Info
}

// Server is the MCP server for deskpet.
type Server struct {
	mcpServer *mcpsdk.Server
	control   Controller
	prober    Prober
}

// NewServer creates a server that talks to the daemon on the default socket.
func NewServer() *Server {
	return NewServerWith(ipc.NewClient(), sysinfo.NewProber())
}

// NewServerWith creates a server over explicit dependencies.
func NewServerWith(control Controller, prober Prober) *Server {
	s := &Server{control: control, prober: prober}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_pet",
		Description: "Show the desktop pet if it is hidden.",
	}, s.handleShow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_pet",
		Description: "Hide the desktop pet. The daemon keeps running and remembers the pet's position.",
	}, s.handleHide)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_pet",
		Description: "Toggle the desktop pet's visibility.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pet_status",
		Description: "Report the daemon status: overlay backend and its capabilities, visibility, click-through, drag phase, anchor-margin placement and screen quadrant.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pet_quadrant",
		Description: "Report which screen quadrant the pet occupies. known is false until the pet window has been placed on a screen.",
	}, s.handleQuadrant)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_click_through",
		Description: "Make the whole pet window ignore (enabled=true) or accept (enabled=false) mouse input.",
	}, s.handleSetClickThrough)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "system_info",
		Description: "Describe the host system: OS, architecture, distribution, login shell and package manager.",
	}, s.handleSystemInfo)
}
