// Package overlay exposes one input/stacking contract over four window
// systems with different capabilities. Backends are chosen at runtime and
// report what they can do through Capabilities; a backend that cannot shape
// its input region accepts SetInputRegion as a recorded no-op instead of
// falling back to whole-window click-through.
package overlay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/deskpet/internal/platform"
)

// ErrUnsupported is returned when a backend kind cannot run in this process,
// for example the Windows backend on Linux.
var ErrUnsupported = errors.New("overlay backend not supported on this platform")

// Kind names an overlay backend. It is fixed for the lifetime of the process.
type Kind string

const (
	KindWayland Kind = "wayland"
	KindX11     Kind = "x11"
	KindWindows Kind = "windows"
	KindMacOS   Kind = "macos"
)

// ParseKind validates a backend name. "auto" and "" yield an empty Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", "auto":
		return "", nil
	case KindWayland, KindX11, KindWindows, KindMacOS:
		return k, nil
	default:
		return "", fmt.Errorf("unknown overlay backend %q (expected auto, wayland, x11, windows or macos)", s)
	}
}

// Capabilities describes what a backend can actually do.
type Capabilities struct {
	// PartialInputRegion is true when SetInputRegion restricts input to a
	// sub-rectangle.
	PartialInputRegion bool
	// ClickThroughPerPixel is true when pass-through follows the input region
	// rather than applying to the whole window.
	ClickThroughPerPixel bool
	AllWorkspaces        bool
}

// InputState is a probe of the window's current input configuration.
type InputState struct {
	ClickThrough bool
	// Region is the active input rectangle, nil when the whole window accepts
	// input (or when input shaping is unsupported).
	Region *platform.Rect
	// RegionNoops counts SetInputRegion calls accepted without effect.
	RegionNoops int
}

// Backend is the per-platform overlay contract. Every method reports failure
// as an error; none panic.
type Backend interface {
	Kind() Kind
	Capabilities() Capabilities
	SetClickThrough(enabled bool) error
	// SetInputRegion restricts input to r. Without PartialInputRegion it is a
	// no-op; X11 still resets click-through here while macOS leaves it as is.
	SetInputRegion(r platform.Rect) error
	ClearInputRegion() error
	SetOverlayMode(enabled bool) error
	InputState() (InputState, error)
}

// HelperOwned reports whether the renderer helper owns the window. Such
// windows are driven through directives on the renderer link, never through
// a native handle in this process.
func (k Kind) HelperOwned() bool {
	return k == KindWayland || k == KindMacOS
}

// Detect picks the backend kind: an explicit override wins, then a Wayland
// session, then the operating system.
func Detect(override string, getenv func(string) string, goos string) (Kind, error) {
	kind, err := ParseKind(override)
	if err != nil {
		return "", err
	}
	if kind != "" {
		return kind, nil
	}

	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	switch goos {
	case "windows":
		return KindWindows, nil
	case "darwin":
		return KindMacOS, nil
	}
	if strings.EqualFold(getenv("XDG_SESSION_TYPE"), "wayland") || getenv("WAYLAND_DISPLAY") != "" {
		return KindWayland, nil
	}
	if goos == "linux" || goos == "freebsd" || goos == "openbsd" || goos == "netbsd" {
		return KindX11, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, goos)
}

func validRegion(r platform.Rect) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid input region %dx%d", r.Width, r.Height)
	}
	return nil
}
