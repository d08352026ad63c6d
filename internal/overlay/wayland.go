package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

// Layer-shell layers used for overlay mode.
const (
	LayerOverlay = "overlay"
	LayerTop     = "top"
)

// LayerShell is the directive channel to the layer-shell helper process.
type LayerShell interface {
	SetInputRegion(r platform.Rect) error
	ClearInputRegion() error
	// SetEmptyInputRegion makes the surface accept no input at all.
	SetEmptyInputRegion() error
	SetLayer(layer string) error
}

// Wayland drives a layer-shell surface. The compositor keeps the surface on
// every workspace and the input region is a native per-pixel primitive.
type Wayland struct {
	shell        LayerShell
	clickThrough bool
	region       *platform.Rect
}

var _ Backend = (*Wayland)(nil)

func NewWayland(shell LayerShell) *Wayland {
	return &Wayland{shell: shell}
}

func (w *Wayland) Kind() Kind { return KindWayland }

func (w *Wayland) Capabilities() Capabilities {
	return Capabilities{PartialInputRegion: true, ClickThroughPerPixel: true, AllWorkspaces: true}
}

// SetClickThrough installs an empty input region. Turning it off restores
// the last requested region, or the full surface.
func (w *Wayland) SetClickThrough(enabled bool) error {
	var err error
	switch {
	case enabled:
		err = w.shell.SetEmptyInputRegion()
	case w.region != nil:
		err = w.shell.SetInputRegion(*w.region)
	default:
		err = w.shell.ClearInputRegion()
	}
	if err != nil {
		return fmt.Errorf("wayland: set click-through: %w", err)
	}
	w.clickThrough = enabled
	return nil
}

func (w *Wayland) SetInputRegion(r platform.Rect) error {
	if err := validRegion(r); err != nil {
		return fmt.Errorf("wayland: %w", err)
	}
	if err := w.shell.SetInputRegion(r); err != nil {
		return fmt.Errorf("wayland: set input region: %w", err)
	}
	region := r
	w.region = &region
	w.clickThrough = false
	return nil
}

func (w *Wayland) ClearInputRegion() error {
	if err := w.shell.ClearInputRegion(); err != nil {
		return fmt.Errorf("wayland: clear input region: %w", err)
	}
	w.region = nil
	w.clickThrough = false
	return nil
}

// SetOverlayMode moves the surface between the overlay and top layers.
func (w *Wayland) SetOverlayMode(enabled bool) error {
	layer := LayerTop
	if enabled {
		layer = LayerOverlay
	}
	if err := w.shell.SetLayer(layer); err != nil {
		return fmt.Errorf("wayland: set layer %s: %w", layer, err)
	}
	return nil
}

func (w *Wayland) InputState() (InputState, error) {
	state := InputState{ClickThrough: w.clickThrough}
	if w.region != nil && !w.clickThrough {
		region := *w.region
		state.Region = &region
	}
	return state, nil
}
