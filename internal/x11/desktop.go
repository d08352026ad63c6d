package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window as EWMH requires.
// The message is built manually because the xgbutil ewmh helpers panic on
// this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// ReleaseFocus hands keyboard focus back to the root window if the given
// window currently holds it.
func (c *Connection) ReleaseFocus(windowID xproto.Window) error {
	focus, err := xproto.GetInputFocus(c.XUtil.Conn()).Reply()
	if err != nil {
		return fmt.Errorf("failed to query input focus: %w", err)
	}
	if focus.Focus != windowID {
		return nil
	}
	return xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(xproto.InputFocusPointerRoot), xproto.TimeCurrentTime).Check()
}

// FindWindowByTitle searches the EWMH client list for a window whose
// _NET_WM_NAME contains the given substring. Returns the first match.
func (c *Connection) FindWindowByTitle(substring string) (xproto.Window, error) {
	if substring == "" {
		return 0, fmt.Errorf("empty window title")
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		name, err := ewmh.WmNameGet(c.XUtil, win)
		if err != nil {
			continue
		}
		if strings.Contains(name, substring) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with title containing %q", substring)
}
