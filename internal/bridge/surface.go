package bridge

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

// Namespace is the layer-shell namespace the helper registers.
const Namespace = "deskpet"

// DefaultWindowSize is the surface size before the renderer asks for another.
var DefaultWindowSize = placement.Size{Width: 740, Height: 600}

// HelperSurface is a pet window owned by the renderer helper: a layer-shell
// surface on Wayland or an NSWindow on macOS. This side only sends
// directives. The helper applies anchors and margins against its own screen,
// so Anchor never needs geometry.
type HelperSurface struct {
	link     Sender
	screen   placement.Size
	window   placement.Size
	ignoring bool
}

var _ platform.Surface = (*HelperSurface)(nil)

func NewHelperSurface(link Sender, window placement.Size) *HelperSurface {
	if window.Width <= 0 || window.Height <= 0 {
		window = DefaultWindowSize
	}
	return &HelperSurface{link: link, window: window}
}

// SetScreen records the output size reported by the helper.
func (s *HelperSurface) SetScreen(size placement.Size) {
	s.screen = size
}

func (s *HelperSurface) Anchor(p placement.Placement) error {
	return s.link.Send(AnchorDirective{
		Directive:        "anchor",
		Right:            p.AnchoredRight,
		Bottom:           p.AnchoredBottom,
		MarginHorizontal: p.MarginHorizontal,
		MarginVertical:   p.MarginVertical,
	})
}

func (s *HelperSurface) Resize(size placement.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", size.Width, size.Height)
	}
	if err := s.link.Send(ResizeDirective{Directive: "resize", Width: size.Width, Height: size.Height}); err != nil {
		return err
	}
	s.window = size
	return nil
}

func (s *HelperSurface) SetKeyboardMode(mode platform.KeyboardMode) error {
	return s.link.Send(KeyboardModeDirective{Directive: "keyboardMode", Mode: string(mode)})
}

func (s *HelperSurface) SetVisible(visible bool) error {
	return s.link.Send(VisibleDirective{Directive: "visible", Visible: visible})
}

// Geometry fails until the helper has reported the output size.
func (s *HelperSurface) Geometry() (platform.Geometry, error) {
	geom := platform.Geometry{
		Screen: platform.Rect{Width: s.screen.Width, Height: s.screen.Height},
		Window: s.window,
	}
	if !geom.Valid() {
		return platform.Geometry{}, platform.ErrNoGeometry
	}
	return geom, nil
}

func (s *HelperSurface) SetInputRegion(r platform.Rect) error {
	return s.link.Send(InputRegionDirective{
		Directive: "inputRegion",
		X:         r.X,
		Y:         r.Y,
		Width:     r.Width,
		Height:    r.Height,
	})
}

func (s *HelperSurface) ClearInputRegion() error {
	return s.link.Send(bareDirective{Directive: "clearInputRegion"})
}

func (s *HelperSurface) SetEmptyInputRegion() error {
	return s.link.Send(InputRegionDirective{Directive: "inputRegion", Empty: true})
}

func (s *HelperSurface) SetLayer(layer string) error {
	return s.link.Send(LayerDirective{Directive: "layer", Layer: layer})
}

// SetIgnoresMouseEvents toggles whole-window click-through on macOS.
func (s *HelperSurface) SetIgnoresMouseEvents(ignore bool) error {
	if err := s.link.Send(IgnoreMouseDirective{Directive: "ignoresMouseEvents", Ignore: ignore}); err != nil {
		return err
	}
	s.ignoring = ignore
	return nil
}

// IgnoresMouseEvents reports the last click-through flag the helper accepted.
func (s *HelperSurface) IgnoresMouseEvents() (bool, error) {
	return s.ignoring, nil
}

// SetOverlay asks the helper to float the NSWindow above the menu bar on
// every space, or to return it to a normal window.
func (s *HelperSurface) SetOverlay(enabled bool) error {
	return s.link.Send(OverlayDirective{Directive: "overlay", Enabled: enabled})
}
