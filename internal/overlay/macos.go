package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

// CocoaWindow is the subset of NSWindow operations the overlay needs. The
// window lives in the renderer helper, so these are directives to it.
type CocoaWindow interface {
	SetIgnoresMouseEvents(ignore bool) error
	IgnoresMouseEvents() (bool, error)
	// SetOverlay applies window level, collection behaviour and transparent
	// background together.
	SetOverlay(enabled bool) error
}

// MacOS only has the binary ignoresMouseEvents toggle. SetInputRegion
// succeeds without restricting input and is counted in RegionNoops.
type MacOS struct {
	win   CocoaWindow
	noops int
}

var _ Backend = (*MacOS)(nil)

func NewMacOS(win CocoaWindow) *MacOS {
	return &MacOS{win: win}
}

func (m *MacOS) Kind() Kind { return KindMacOS }

func (m *MacOS) Capabilities() Capabilities {
	return Capabilities{PartialInputRegion: false, ClickThroughPerPixel: false, AllWorkspaces: true}
}

func (m *MacOS) SetClickThrough(enabled bool) error {
	if err := m.win.SetIgnoresMouseEvents(enabled); err != nil {
		return fmt.Errorf("macos: set click-through: %w", err)
	}
	return nil
}

// SetInputRegion leaves the window's input untouched.
func (m *MacOS) SetInputRegion(r platform.Rect) error {
	if err := validRegion(r); err != nil {
		return fmt.Errorf("macos: %w", err)
	}
	m.noops++
	return nil
}

// ClearInputRegion turns click-through off so the whole window accepts input.
func (m *MacOS) ClearInputRegion() error {
	if err := m.win.SetIgnoresMouseEvents(false); err != nil {
		return fmt.Errorf("macos: clear input region: %w", err)
	}
	return nil
}

func (m *MacOS) SetOverlayMode(enabled bool) error {
	if err := m.win.SetOverlay(enabled); err != nil {
		return fmt.Errorf("macos: set overlay mode: %w", err)
	}
	return nil
}

func (m *MacOS) InputState() (InputState, error) {
	ignoring, err := m.win.IgnoresMouseEvents()
	if err != nil {
		return InputState{}, fmt.Errorf("macos: query mouse events: %w", err)
	}
	return InputState{ClickThrough: ignoring, RegionNoops: m.noops}, nil
}
