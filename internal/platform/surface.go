package platform

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/placement"
)

// AbsoluteSurface drives a window on platforms without edge anchoring (X11,
// Windows, macOS): each placement is converted to a top-left corner on the
// hosting display and the window is moved there.
type AbsoluteSurface struct {
	backend Backend
	id      WindowID
	size    placement.Size
}

var _ Surface = (*AbsoluteSurface)(nil)

// NewAbsoluteSurface binds a native backend to one window.
func NewAbsoluteSurface(backend Backend, id WindowID) *AbsoluteSurface {
	return &AbsoluteSurface{backend: backend, id: id}
}

// Window returns the native handle the surface drives.
func (s *AbsoluteSurface) Window() WindowID {
	return s.id
}

// Anchor moves the window so its corner matches what p encodes.
func (s *AbsoluteSurface) Anchor(p placement.Placement) error {
	geom, err := s.Geometry()
	if err != nil {
		return err
	}
	x, y := p.TopLeft(geom.Screen.Size(), geom.Window)
	if err := s.backend.Move(s.id, geom.Screen.X+x, geom.Screen.Y+y); err != nil {
		return fmt.Errorf("%s: move window: %w", s.backend.Name(), err)
	}
	return nil
}

// Resize changes the window size. The requested size is remembered so that
// placement math does not depend on the window manager having caught up.
func (s *AbsoluteSurface) Resize(size placement.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", size.Width, size.Height)
	}
	if err := s.backend.Resize(s.id, size.Width, size.Height); err != nil {
		return fmt.Errorf("%s: resize window: %w", s.backend.Name(), err)
	}
	s.size = size
	return nil
}

// SetKeyboardMode focuses the window for exclusive mode and releases focus
// otherwise.
func (s *AbsoluteSurface) SetKeyboardMode(mode KeyboardMode) error {
	return s.backend.Focus(s.id, mode == KeyboardExclusive)
}

func (s *AbsoluteSurface) SetVisible(visible bool) error {
	return s.backend.SetVisible(s.id, visible)
}

// Geometry reports the hosting display's usable area and the window size.
func (s *AbsoluteSurface) Geometry() (Geometry, error) {
	display, err := s.backend.DisplayForWindow(s.id)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %v", ErrNoGeometry, err)
	}
	size := s.size
	if size.Width <= 0 || size.Height <= 0 {
		bounds, err := s.backend.WindowBounds(s.id)
		if err != nil {
			return Geometry{}, fmt.Errorf("%w: %v", ErrNoGeometry, err)
		}
		size = bounds.Size()
	}
	geom := Geometry{Screen: display.Usable, Window: size}
	if !geom.Valid() {
		return Geometry{}, ErrNoGeometry
	}
	return geom, nil
}
