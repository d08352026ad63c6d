package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

// Extended window styles (WS_EX_*).
const (
	exTransparent = 0x00000020
	exToolWindow  = 0x00000080
	exLayered     = 0x00080000
)

// Win32Window is the subset of user32/gdi32 operations the overlay needs.
type Win32Window interface {
	ExStyle() (uintptr, error)
	SetExStyle(style uintptr) error
	// SetRegion clips the window to r (client-relative); nil removes the clip.
	SetRegion(r *platform.Rect) error
	SetTopmost(topmost bool) error
}

// Windows combines the whole-window transparency flag with window-region
// clipping for partial input.
type Windows struct {
	win    Win32Window
	region *platform.Rect
}

var _ Backend = (*Windows)(nil)

func NewWindows(win Win32Window) *Windows {
	return &Windows{win: win}
}

func (w *Windows) Kind() Kind { return KindWindows }

func (w *Windows) Capabilities() Capabilities {
	return Capabilities{PartialInputRegion: true, ClickThroughPerPixel: false, AllWorkspaces: false}
}

func (w *Windows) SetClickThrough(enabled bool) error {
	style, err := w.win.ExStyle()
	if err != nil {
		return fmt.Errorf("windows: read extended style: %w", err)
	}
	if enabled {
		style |= exTransparent | exLayered
	} else {
		style &^= exTransparent
	}
	if err := w.win.SetExStyle(style); err != nil {
		return fmt.Errorf("windows: set click-through: %w", err)
	}
	return nil
}

// SetInputRegion clips the window to r and drops WS_EX_TRANSPARENT so the
// region accepts input.
func (w *Windows) SetInputRegion(r platform.Rect) error {
	if err := validRegion(r); err != nil {
		return fmt.Errorf("windows: %w", err)
	}
	region := r
	if err := w.win.SetRegion(&region); err != nil {
		return fmt.Errorf("windows: set input region: %w", err)
	}
	w.region = &region
	if err := w.acceptInput(); err != nil {
		return fmt.Errorf("windows: set input region: %w", err)
	}
	return nil
}

// ClearInputRegion removes the clip and drops WS_EX_TRANSPARENT, so the
// whole window accepts input again.
func (w *Windows) ClearInputRegion() error {
	if err := w.win.SetRegion(nil); err != nil {
		return fmt.Errorf("windows: clear input region: %w", err)
	}
	w.region = nil
	if err := w.acceptInput(); err != nil {
		return fmt.Errorf("windows: clear input region: %w", err)
	}
	return nil
}

// acceptInput clears WS_EX_TRANSPARENT and keeps the window layered.
func (w *Windows) acceptInput() error {
	style, err := w.win.ExStyle()
	if err != nil {
		return fmt.Errorf("read extended style: %w", err)
	}
	return w.win.SetExStyle(style&^exTransparent | exLayered)
}

// SetOverlayMode toggles the layered tool-window style (hidden from the
// taskbar) and the topmost z-order band. Leaving overlay mode also drops
// WS_EX_LAYERED.
func (w *Windows) SetOverlayMode(enabled bool) error {
	style, err := w.win.ExStyle()
	if err != nil {
		return fmt.Errorf("windows: read extended style: %w", err)
	}
	if enabled {
		style |= exLayered | exToolWindow
	} else {
		style &^= exToolWindow | exLayered
	}
	if err := w.win.SetExStyle(style); err != nil {
		return fmt.Errorf("windows: set overlay style: %w", err)
	}
	if err := w.win.SetTopmost(enabled); err != nil {
		return fmt.Errorf("windows: set topmost: %w", err)
	}
	return nil
}

func (w *Windows) InputState() (InputState, error) {
	style, err := w.win.ExStyle()
	if err != nil {
		return InputState{}, fmt.Errorf("windows: read extended style: %w", err)
	}
	state := InputState{ClickThrough: style&exTransparent != 0}
	if w.region != nil {
		region := *w.region
		state.Region = &region
	}
	return state, nil
}
