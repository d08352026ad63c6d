package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/sysinfo"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) runAction(name string, fn func() error) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := fn(); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("%s failed: %w", name, err)
	}
	return textResult("%s: ok", name), ActionOutput{Action: name, OK: true}, nil
}

func (s *Server) handleShow(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.runAction("show", s.control.Show)
}

func (s *Server) handleHide(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.runAction("hide", s.control.Hide)
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.runAction("toggle", s.control.Toggle)
}

func (s *Server) handleSetClickThrough(_ context.Context, _ *mcpsdk.CallToolRequest, args SetClickThroughInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.runAction("set_click_through", func() error {
		return s.control.SetClickThrough(args.Enabled)
	})
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.control.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	visible := "hidden"
	if status.Visible {
		visible = "visible"
	}
	return textResult("deskpet on %s: %s, drag %s", status.Backend, visible, status.DragPhase), *status, nil
}

func (s *Server) handleQuadrant(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, QuadrantOutput, error) {
	q, err := s.control.GetQuadrant()
	if err != nil {
		return nil, QuadrantOutput{}, err
	}
	out := QuadrantOutput{
		Known:        q.Known,
		IsRightHalf:  q.IsRightHalf,
		IsBottomHalf: q.IsBottomHalf,
		Description:  describeQuadrant(*q),
	}
	return textResult("%s", out.Description), out, nil
}

func (s *Server) handleSystemInfo(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, sysinfo.Info, error) {
	info := s.prober.Probe(ctx)
	return textResult("%s/%s %s", info.OS, info.Arch, info.Distro), info, nil
}

func describeQuadrant(q ipc.QuadrantData) string {
	if !q.Known {
		return "unknown"
	}
	vertical := "top"
	if q.IsBottomHalf {
		vertical = "bottom"
	}
	horizontal := "left"
	if q.IsRightHalf {
		horizontal = "right"
	}
	return vertical + "-" + horizontal
}
