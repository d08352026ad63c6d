//go:build darwin

package platform

import (
	"errors"

	"github.com/1broseidon/deskpet/internal/cocoa"
)

// NewNativeBackend has nothing to open on macOS: the NSWindow lives in the
// renderer helper and is driven with directives over the renderer link.
func NewNativeBackend() (Backend, error) {
	return nil, errors.New("macOS windows are owned by the renderer helper")
}

// MainDisplay returns the primary screen in top-left coordinates. Usable
// excludes the menu bar and the Dock.
func MainDisplay() (Display, error) {
	frame, visible, err := cocoa.PrimaryScreenFrames()
	if err != nil {
		return Display{}, err
	}
	d := Display{
		Name:   "main",
		Bounds: flipRect(frame, frame.Size.Height),
		Usable: flipRect(visible, frame.Size.Height),
	}
	if d.Usable.Empty() {
		return Display{}, ErrNoGeometry
	}
	return d, nil
}

// flipRect converts a Cocoa rectangle (origin at the bottom-left of the
// primary screen) to top-left coordinates.
func flipRect(r cocoa.Rect, primaryHeight float64) Rect {
	return Rect{
		X:      int(r.Origin.X),
		Y:      int(primaryHeight - r.Origin.Y - r.Size.Height),
		Width:  int(r.Size.Width),
		Height: int(r.Size.Height),
	}
}
