//go:build linux

package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/deskpet/internal/platform"
	"github.com/1broseidon/deskpet/internal/x11"
)

type x11Window struct {
	conn *x11.Connection
	id   xproto.Window
}

func (w x11Window) SetInputPassthrough(enabled bool) error {
	return w.conn.SetInputPassthrough(w.id, enabled)
}

func (w x11Window) InputPassthrough() (bool, error) {
	return w.conn.InputPassthrough(w.id)
}

func (w x11Window) SetAlwaysOnTop(enabled bool) error {
	return w.conn.SetAlwaysOnTop(w.id, enabled)
}

func (w x11Window) SetDecorated(decorated bool) error {
	return w.conn.SetDecorated(w.id, decorated)
}

func openNative(kind Kind, native platform.Backend, handle platform.WindowID) (Backend, error) {
	if kind != KindX11 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	lb, ok := native.(*platform.LinuxBackend)
	if !ok || lb.Connection() == nil {
		return nil, fmt.Errorf("x11 overlay requires an X11 connection")
	}
	return NewX11(x11Window{conn: lb.Connection(), id: xproto.Window(handle)}), nil
}
