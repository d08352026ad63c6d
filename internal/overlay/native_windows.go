//go:build windows

package overlay

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/deskpet/internal/platform"
	"github.com/1broseidon/deskpet/internal/win32"
)

type win32Window windows.HWND

func (w win32Window) ExStyle() (uintptr, error) {
	return win32.ExStyle(windows.HWND(w))
}

func (w win32Window) SetExStyle(style uintptr) error {
	return win32.SetExStyle(windows.HWND(w), style)
}

func (w win32Window) SetRegion(r *platform.Rect) error {
	if r == nil {
		return win32.SetRegion(windows.HWND(w), nil)
	}
	return win32.SetRegion(windows.HWND(w), &windows.Rect{
		Left:   int32(r.X),
		Top:    int32(r.Y),
		Right:  int32(r.X + r.Width),
		Bottom: int32(r.Y + r.Height),
	})
}

func (w win32Window) SetTopmost(topmost bool) error {
	return win32.SetTopmost(windows.HWND(w), topmost)
}

func openNative(kind Kind, _ platform.Backend, handle platform.WindowID) (Backend, error) {
	if kind != KindWindows {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	return NewWindows(win32Window(handle)), nil
}
