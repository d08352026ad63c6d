// Package bridge speaks the renderer wire protocol: actions read from the
// renderer helper, events written back to it, and window directives for
// helpers that own their window (Wayland and macOS). Every message is one
// JSON object per line.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskpet/internal/placement"
)

// Action is an inbound renderer message type
type Action string

const (
	ActionStartDrag       Action = "startDrag"
	ActionDrag            Action = "drag"
	ActionEndDrag         Action = "endDrag"
	ActionResize          Action = "resize"
	ActionGetQuadrant     Action = "getQuadrant"
	ActionSetInputRegion  Action = "setInputRegion"
	ActionRealize         Action = "realize"
	ActionSetClickThrough Action = "setClickThrough"
	ActionExecuteCommand  Action = "executeCommand"
	ActionGetSystemInfo   Action = "getSystemInfo"
	ActionHide            Action = "hide"
	ActionQuit            Action = "quit"
)

// Input region modes for setInputRegion.
const (
	RegionCharacter = "character"
	RegionFull      = "full"
)

// Message is an inbound renderer message. Only the fields of its action are
// meaningful.
type Message struct {
	Action Action `json:"action"`

	// drag
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`

	// resize, setInputRegion
	Width  int `json:"width"`
	Height int `json:"height"`

	// setInputRegion
	Mode string `json:"mode,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	// realize
	WindowID     uint64 `json:"windowId,omitempty"`
	ScreenWidth  int    `json:"screenWidth,omitempty"`
	ScreenHeight int    `json:"screenHeight,omitempty"`

	// setClickThrough
	Enabled bool `json:"enabled"`

	// executeCommand
	ID      string `json:"id,omitempty"`
	Command string `json:"command,omitempty"`
}

// ParseMessage decodes one inbound line.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to parse renderer message: %w", err)
	}
	if msg.Action == "" {
		return Message{}, fmt.Errorf("renderer message has no action")
	}
	return msg, nil
}

// QuadrantChange tells the renderer to re-lay-out the chat panel.
type QuadrantChange struct {
	Event        string `json:"event"`
	IsRightHalf  bool   `json:"isRightHalf"`
	IsBottomHalf bool   `json:"isBottomHalf"`
}

func NewQuadrantChange(q placement.Quadrant) QuadrantChange {
	return QuadrantChange{Event: "quadrantChange", IsRightHalf: q.RightHalf, IsBottomHalf: q.BottomHalf}
}

// CharacterMove reports the window's top-left corner within the usable
// screen area after a drag step.
type CharacterMove struct {
	Event string `json:"event"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func NewCharacterMove(x, y int) CharacterMove {
	return CharacterMove{Event: "characterMove", X: x, Y: y}
}

// InitialState answers getQuadrant.
type InitialState struct {
	Event        string `json:"event"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	IsRightHalf  bool   `json:"isRightHalf"`
	IsBottomHalf bool   `json:"isBottomHalf"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
}

func NewInitialState(x, y int, q placement.Quadrant, screen placement.Size) InitialState {
	return InitialState{
		Event:        "initialState",
		X:            x,
		Y:            y,
		IsRightHalf:  q.RightHalf,
		IsBottomHalf: q.BottomHalf,
		ScreenWidth:  screen.Width,
		ScreenHeight: screen.Height,
	}
}

// CommandOutput carries one line of a running command's stdout or stderr.
type CommandOutput struct {
	Event string `json:"event"`
	ID    string `json:"id"`
	Line  string `json:"line"`
}

func NewCommandStdout(id, line string) CommandOutput {
	return CommandOutput{Event: "commandStdout", ID: id, Line: line}
}

func NewCommandStderr(id, line string) CommandOutput {
	return CommandOutput{Event: "commandStderr", ID: id, Line: line}
}

// CommandComplete is sent once per command.
type CommandComplete struct {
	Event    string `json:"event"`
	ID       string `json:"id"`
	ExitCode int    `json:"exitCode"`
	Error    string `json:"error,omitempty"`
}

func NewCommandComplete(id string, exitCode int, err error) CommandComplete {
	c := CommandComplete{Event: "commandComplete", ID: id, ExitCode: exitCode}
	if err != nil {
		c.Error = err.Error()
	}
	return c
}

// SystemInfo wraps a system probe result.
type SystemInfo struct {
	Event string `json:"event"`
	Info  any    `json:"info"`
}

func NewSystemInfo(info any) SystemInfo {
	return SystemInfo{Event: "systemInfo", Info: info}
}

type Visibility struct {
	Event   string `json:"event"`
	Visible bool   `json:"visible"`
}

func NewVisibility(visible bool) Visibility {
	return Visibility{Event: "visibility", Visible: visible}
}

type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

func NewErrorEvent(err error) ErrorEvent {
	return ErrorEvent{Event: "error", Message: err.Error()}
}

// Directives understood by the helper. The layer-shell ones are Wayland
// only; ignoresMouseEvents and overlay are macOS only.

type AnchorDirective struct {
	Directive        string `json:"directive"`
	Right            bool   `json:"right"`
	Bottom           bool   `json:"bottom"`
	MarginHorizontal int    `json:"marginHorizontal"`
	MarginVertical   int    `json:"marginVertical"`
}

type InputRegionDirective struct {
	Directive string `json:"directive"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Empty     bool   `json:"empty"`
}

type KeyboardModeDirective struct {
	Directive string `json:"directive"`
	Mode      string `json:"mode"`
}

type LayerDirective struct {
	Directive string `json:"directive"`
	Layer     string `json:"layer"`
}

type ResizeDirective struct {
	Directive string `json:"directive"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type VisibleDirective struct {
	Directive string `json:"directive"`
	Visible   bool   `json:"visible"`
}

type IgnoreMouseDirective struct {
	Directive string `json:"directive"`
	Ignore    bool   `json:"ignore"`
}

type OverlayDirective struct {
	Directive string `json:"directive"`
	Enabled   bool   `json:"enabled"`
}

type bareDirective struct {
	Directive string `json:"directive"`
}
