package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

// X11Window is the subset of X11 window operations the overlay needs.
type X11Window interface {
	// SetInputPassthrough installs an empty XShape input region, or resets
	// the input shape to the full window.
	SetInputPassthrough(enabled bool) error
	InputPassthrough() (bool, error)
	// SetAlwaysOnTop sets _NET_WM_STATE_ABOVE and _NET_WM_STATE_STICKY.
	SetAlwaysOnTop(enabled bool) error
	SetDecorated(decorated bool) error
}

// X11 supports whole-window click-through only. SetInputRegion succeeds
// without restricting input and is counted in InputState.RegionNoops.
type X11 struct {
	win   X11Window
	noops int
}

var _ Backend = (*X11)(nil)

func NewX11(win X11Window) *X11 {
	return &X11{win: win}
}

func (x *X11) Kind() Kind { return KindX11 }

func (x *X11) Capabilities() Capabilities {
	return Capabilities{PartialInputRegion: false, ClickThroughPerPixel: false, AllWorkspaces: true}
}

func (x *X11) SetClickThrough(enabled bool) error {
	if err := x.win.SetInputPassthrough(enabled); err != nil {
		return fmt.Errorf("x11: set click-through: %w", err)
	}
	return nil
}

// SetInputRegion keeps the whole window accepting input.
func (x *X11) SetInputRegion(r platform.Rect) error {
	if err := validRegion(r); err != nil {
		return fmt.Errorf("x11: %w", err)
	}
	if err := x.win.SetInputPassthrough(false); err != nil {
		return fmt.Errorf("x11: set input region: %w", err)
	}
	x.noops++
	return nil
}

func (x *X11) ClearInputRegion() error {
	if err := x.win.SetInputPassthrough(false); err != nil {
		return fmt.Errorf("x11: clear input region: %w", err)
	}
	return nil
}

func (x *X11) SetOverlayMode(enabled bool) error {
	if err := x.win.SetAlwaysOnTop(enabled); err != nil {
		return fmt.Errorf("x11: set always on top: %w", err)
	}
	if err := x.win.SetDecorated(!enabled); err != nil {
		return fmt.Errorf("x11: set decorations: %w", err)
	}
	return nil
}

// InputState reads the input shape back from the server.
func (x *X11) InputState() (InputState, error) {
	passthrough, err := x.win.InputPassthrough()
	if err != nil {
		return InputState{}, fmt.Errorf("x11: query input shape: %w", err)
	}
	return InputState{ClickThrough: passthrough, RegionNoops: x.noops}, nil
}
