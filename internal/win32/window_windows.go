//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetWindowLongPtrW   = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW   = user32.NewProc("SetWindowLongPtrW")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procSetWindowRgn        = user32.NewProc("SetWindowRgn")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetShellWindow      = user32.NewProc("GetShellWindow")
	procShowWindow          = user32.NewProc("ShowWindow")
	procCreateRectRgn       = gdi32.NewProc("CreateRectRgn")
	procDeleteObject        = gdi32.NewProc("DeleteObject")
)

// GWL_EXSTYLE is -20; passed through uintptr as its two's complement.
const gwlExStyle = ^uintptr(19)

const (
	WSExTransparent = 0x00000020
	WSExToolWindow  = 0x00000080
	WSExLayered     = 0x00080000

	swpNoSize          = 0x0001
	swpNoMove          = 0x0002
	swpNoZOrder        = 0x0004
	swpNoActivate      = 0x0010
	swpFrameChanged    = 0x0020
	monitorDefaultNear = 0x00000002
	swHide             = 0
	swShowNoActivate   = 4
)

var (
	hwndTopmost   = ^uintptr(0) // (HWND)-1
	hwndNoTopmost = ^uintptr(1) // (HWND)-2
)

type monitorInfo struct {
	CbSize    uint32
	RcMonitor windows.Rect
	RcWork    windows.Rect
	DwFlags   uint32
}

// callErr formats a failed call. Some calls fail without setting the last
// error, leaving ERROR_SUCCESS in lastErr.
func callErr(name string, err error) error {
	if errno, ok := err.(windows.Errno); ok && errno == 0 {
		return fmt.Errorf("%s failed", name)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// ExStyle returns the window's extended style bits.
func ExStyle(hwnd windows.HWND) (uintptr, error) {
	r, _, err := procGetWindowLongPtrW.Call(uintptr(hwnd), gwlExStyle)
	if r == 0 {
		if errno, ok := err.(windows.Errno); ok && errno != 0 {
			return 0, fmt.Errorf("GetWindowLongPtrW: %w", err)
		}
	}
	return r, nil
}

// SetExStyle replaces the window's extended style bits.
func SetExStyle(hwnd windows.HWND, style uintptr) error {
	r, _, err := procSetWindowLongPtrW.Call(uintptr(hwnd), gwlExStyle, style)
	if r == 0 {
		if errno, ok := err.(windows.Errno); ok && errno != 0 {
			return fmt.Errorf("SetWindowLongPtrW: %w", err)
		}
	}
	return nil
}

// SetRegion clips the window (and so its hit-test area) to the given
// client-relative rectangle. A nil rectangle restores the full window.
func SetRegion(hwnd windows.HWND, r *windows.Rect) error {
	if r == nil {
		ok, _, err := procSetWindowRgn.Call(uintptr(hwnd), 0, 1)
		if ok == 0 {
			return callErr("SetWindowRgn", err)
		}
		return nil
	}

	rgn, _, err := procCreateRectRgn.Call(uintptr(r.Left), uintptr(r.Top), uintptr(r.Right), uintptr(r.Bottom))
	if rgn == 0 {
		return callErr("CreateRectRgn", err)
	}
	// On success the system owns the region; on failure it must be freed here.
	ok, _, err := procSetWindowRgn.Call(uintptr(hwnd), rgn, 1)
	if ok == 0 {
		procDeleteObject.Call(rgn)
		return callErr("SetWindowRgn", err)
	}
	return nil
}

// SetTopmost places the window in or out of the topmost z-order band.
func SetTopmost(hwnd windows.HWND, topmost bool) error {
	after := hwndNoTopmost
	if topmost {
		after = hwndTopmost
	}
	ok, _, err := procSetWindowPos.Call(uintptr(hwnd), after, 0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoActivate|swpFrameChanged)
	if ok == 0 {
		return callErr("SetWindowPos", err)
	}
	return nil
}

// Bounds returns the window rectangle in screen coordinates.
func Bounds(hwnd windows.HWND) (windows.Rect, error) {
	var r windows.Rect
	ok, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return windows.Rect{}, callErr("GetWindowRect", err)
	}
	return r, nil
}

// MonitorAreas returns the full and work-area rectangles of the monitor
// nearest to the window.
func MonitorAreas(hwnd windows.HWND) (monitor, work windows.Rect, err error) {
	hmon, _, _ := procMonitorFromWindow.Call(uintptr(hwnd), monitorDefaultNear)
	if hmon == 0 {
		return windows.Rect{}, windows.Rect{}, fmt.Errorf("MonitorFromWindow returned no monitor")
	}
	info := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	ok, _, callErrno := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		return windows.Rect{}, windows.Rect{}, callErr("GetMonitorInfoW", callErrno)
	}
	return info.RcMonitor, info.RcWork, nil
}

// Move positions the window without changing size, z-order or activation.
func Move(hwnd windows.HWND, x, y int) error {
	ok, _, err := procSetWindowPos.Call(uintptr(hwnd), 0, uintptr(int32(x)), uintptr(int32(y)), 0, 0,
		swpNoSize|swpNoZOrder|swpNoActivate)
	if ok == 0 {
		return callErr("SetWindowPos", err)
	}
	return nil
}

// Resize changes the window size without moving it.
func Resize(hwnd windows.HWND, width, height int) error {
	ok, _, err := procSetWindowPos.Call(uintptr(hwnd), 0, 0, 0, uintptr(width), uintptr(height),
		swpNoMove|swpNoZOrder|swpNoActivate)
	if ok == 0 {
		return callErr("SetWindowPos", err)
	}
	return nil
}

// Focus brings the window to the foreground, or hands the foreground back
// to the shell when the window currently holds it.
func Focus(hwnd windows.HWND, focused bool) error {
	if focused {
		procSetForegroundWindow.Call(uintptr(hwnd))
		return nil
	}
	fg, _, _ := procGetForegroundWindow.Call()
	if fg != uintptr(hwnd) {
		return nil
	}
	shell, _, _ := procGetShellWindow.Call()
	if shell != 0 {
		procSetForegroundWindow.Call(shell)
	}
	return nil
}

// Show shows the window without activating it, or hides it.
func Show(hwnd windows.HWND, visible bool) error {
	cmd := uintptr(swHide)
	if visible {
		cmd = swShowNoActivate
	}
	procShowWindow.Call(uintptr(hwnd), cmd)
	return nil
}
