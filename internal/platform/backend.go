package platform

import (
	"errors"

	"github.com/1broseidon/deskpet/internal/placement"
)

// ErrNoGeometry is returned when the hosting monitor or the window size cannot
// be determined. Callers must skip geometry-dependent updates.
var ErrNoGeometry = errors.New("screen geometry unavailable")

// WindowID is a platform-neutral native window handle: an X11 window id or
// an HWND.
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() placement.Size {
	return placement.Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Geometry is what the positioning code needs to know about the outside
// world: the usable area of the monitor hosting the window and the window's
// own size.
type Geometry struct {
	Screen Rect
	Window placement.Size
}

// Valid reports whether both the screen and the window have a positive area.
func (g Geometry) Valid() bool {
	return !g.Screen.Empty() && g.Window.Width > 0 && g.Window.Height > 0
}

// KeyboardMode controls whether the pet window takes keyboard focus.
type KeyboardMode string

const (
	KeyboardNone      KeyboardMode = "none"
	KeyboardOnDemand  KeyboardMode = "on_demand"
	KeyboardExclusive KeyboardMode = "exclusive"
)

// Surface is the pet window as seen by the positioning code. Anchor applies
// anchors and margins together in one step.
type Surface interface {
	Anchor(p placement.Placement) error
	Resize(size placement.Size) error
	SetKeyboardMode(mode KeyboardMode) error
	SetVisible(visible bool) error
	Geometry() (Geometry, error)
}

// Backend abstracts native window-system operations on a single window.
type Backend interface {
	Name() string
	DisplayForWindow(id WindowID) (Display, error)
	WindowBounds(id WindowID) (Rect, error)
	Move(id WindowID, x, y int) error
	Resize(id WindowID, width, height int) error
	Focus(id WindowID, focused bool) error
	SetVisible(id WindowID, visible bool) error
}
