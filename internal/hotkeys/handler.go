// Package hotkeys grabs global key sequences on X11 and turns them into
// daemon control commands.
package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/platform"
)

// ErrUnsupported is returned for backends without global key grabs.
var ErrUnsupported = errors.New("global hotkeys need an X11 backend")

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

var initOnce sync.Once

// NewHandler creates a hotkey handler on the backend's X connection.
func NewHandler(backend platform.Backend) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, ErrUnsupported
	}
	xu := accessor.XUtil()

	initOnce.Do(func() {
		keybind.Initialize(xu)
		configureIgnoreMods(xu)
	})

	return &Handler{xu: xu, root: accessor.RootWindow()}, nil
}

// RegisterToggle binds keySequence to a visibility toggle.
func (h *Handler) RegisterToggle(keySequence string, controls chan<- ipc.Control) error {
	if err := h.RegisterFunc(keySequence, ToggleSender(controls)); err != nil {
		return fmt.Errorf("failed to register toggle hotkey %q: %w", keySequence, err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Run dispatches X events until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		xevent.Quit(h.xu)
	}()
	xevent.Main(h.xu)
}

// ToggleSender returns a callback that queues a toggle without blocking the
// X event loop.
func ToggleSender(controls chan<- ipc.Control) func() {
	return func() {
		select {
		case controls <- ipc.Control{Command: ipc.CommandToggle}:
		default:
			log.Println("Toggle hotkey dropped: daemon is busy")
		}
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, with zero and duplicate masks skipped.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if m == 0 || seen[m] {
			continue
		}
		seen[m] = true
		base = append(base, m)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
