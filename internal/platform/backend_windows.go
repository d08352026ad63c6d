//go:build windows

package platform

import (
	"golang.org/x/sys/windows"

	"github.com/1broseidon/deskpet/internal/win32"
)

// WindowsBackend drives a top-level HWND through user32.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewNativeBackend opens the window-system backend for this OS.
func NewNativeBackend() (Backend, error) {
	return &WindowsBackend{}, nil
}

func (b *WindowsBackend) Name() string { return "windows" }

// DisplayForWindow returns the monitor nearest to the window, with its work
// area excluding the taskbar.
func (b *WindowsBackend) DisplayForWindow(id WindowID) (Display, error) {
	monitor, work, err := win32.MonitorAreas(windows.HWND(id))
	if err != nil {
		return Display{}, err
	}
	return Display{
		Name:   "primary",
		Bounds: rectFromWin32(monitor),
		Usable: rectFromWin32(work),
	}, nil
}

func (b *WindowsBackend) WindowBounds(id WindowID) (Rect, error) {
	r, err := win32.Bounds(windows.HWND(id))
	if err != nil {
		return Rect{}, err
	}
	return rectFromWin32(r), nil
}

func (b *WindowsBackend) Move(id WindowID, x, y int) error {
	return win32.Move(windows.HWND(id), x, y)
}

func (b *WindowsBackend) Resize(id WindowID, width, height int) error {
	return win32.Resize(windows.HWND(id), width, height)
}

func (b *WindowsBackend) Focus(id WindowID, focused bool) error {
	return win32.Focus(windows.HWND(id), focused)
}

func (b *WindowsBackend) SetVisible(id WindowID, visible bool) error {
	return win32.Show(windows.HWND(id), visible)
}

func rectFromWin32(r windows.Rect) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}
