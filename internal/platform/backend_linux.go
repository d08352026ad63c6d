//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// NewNativeBackend opens the window-system backend for this OS.
func NewNativeBackend() (Backend, error) {
	return NewLinuxBackendFromDisplay()
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the underlying X11 connection for X11-specific operations.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X root window.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) Name() string { return "x11" }

// DisplayForWindow returns the monitor hosting the window, trimmed to the
// work area.
func (b *LinuxBackend) DisplayForWindow(id WindowID) (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	mon, err := conn.MonitorForWindow(xproto.Window(id))
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*mon), nil
}

// WindowBounds returns the window's root-relative bounds.
func (b *LinuxBackend) WindowBounds(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *LinuxBackend) Move(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(id), x, y)
}

func (b *LinuxBackend) Resize(id WindowID, width, height int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(xproto.Window(id), width, height)
}

// Focus activates the window, or returns focus to the root window.
func (b *LinuxBackend) Focus(id WindowID, focused bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if focused {
		return conn.FocusWindow(xproto.Window(id))
	}
	return conn.ReleaseFocus(xproto.Window(id))
}

func (b *LinuxBackend) SetVisible(id WindowID, visible bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetVisible(xproto.Window(id), visible)
}

// FindWindow resolves a window by title substring.
func (b *LinuxBackend) FindWindow(title string) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.FindWindowByTitle(title)
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: rectFromX11(m.Bounds),
		Usable: rectFromX11(m.Work),
	}
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
