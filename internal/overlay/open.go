package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

// HelperWindow is a window owned by the renderer helper process. The
// Wayland backend uses its layer-shell directives and the macOS backend its
// NSWindow directives.
type HelperWindow interface {
	LayerShell
	CocoaWindow
}

// Open builds the backend for kind. Helper-owned kinds are driven through
// helper; X11 and Windows bind to the native window handle using the
// window-system connection held by native.
func Open(kind Kind, helper HelperWindow, native platform.Backend, handle platform.WindowID) (Backend, error) {
	switch kind {
	case KindWayland, KindMacOS:
		if helper == nil {
			return nil, fmt.Errorf("%s overlay requires a renderer helper link", kind)
		}
		if kind == KindWayland {
			return NewWayland(helper), nil
		}
		return NewMacOS(helper), nil
	case KindX11, KindWindows:
		if handle == 0 {
			return nil, fmt.Errorf("%s overlay requires a native window handle", kind)
		}
		return openNative(kind, native, handle)
	default:
		return nil, fmt.Errorf("unknown overlay backend %q", kind)
	}
}
