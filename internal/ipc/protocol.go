package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandShow            CommandType = "SHOW"
	CommandHide            CommandType = "HIDE"
	CommandToggle          CommandType = "TOGGLE"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetQuadrant     CommandType = "GET_QUADRANT"
	CommandSetClickThrough CommandType = "SET_CLICK_THROUGH"
	CommandReload          CommandType = "RELOAD"
	CommandQuit            CommandType = "QUIT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Control is a state change handed to the host loop. The loop is the only
// place pet state is modified; the server never touches it directly.
type Control struct {
	Command CommandType
	Enabled bool
}

// CapabilitiesData mirrors the overlay backend capabilities.
type CapabilitiesData struct {
	PartialInputRegion   bool `json:"partial_input_region"`
	ClickThroughPerPixel bool `json:"click_through_per_pixel"`
	AllWorkspaces        bool `json:"all_workspaces"`
}

// PlacementData is the pet's anchor-margin placement.
type PlacementData struct {
	MarginHorizontal int  `json:"margin_horizontal"`
	MarginVertical   int  `json:"margin_vertical"`
	AnchoredRight    bool `json:"anchored_right"`
	AnchoredBottom   bool `json:"anchored_bottom"`
}

// QuadrantData represents the data returned by GET_QUADRANT
type QuadrantData struct {
	Known        bool `json:"known"`
	IsRightHalf  bool `json:"is_right_half"`
	IsBottomHalf bool `json:"is_bottom_half"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning     bool             `json:"daemon_running"`
	UptimeSeconds     int64            `json:"uptime_seconds"`
	Backend           string           `json:"backend"`
	Capabilities      CapabilitiesData `json:"capabilities"`
	RendererConnected bool             `json:"renderer_connected"`
	Visible           bool             `json:"visible"`
	ClickThrough      bool             `json:"click_through"`
	RegionNoops       int              `json:"region_noops"`
	DragPhase         string           `json:"drag_phase"`
	Placement         PlacementData    `json:"placement"`
	Quadrant          QuadrantData     `json:"quadrant"`
}

// SetClickThroughPayload represents the payload for SET_CLICK_THROUGH
type SetClickThroughPayload struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
