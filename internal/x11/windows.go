package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowGeometry returns the window's root-relative origin and size.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry of 0x%x: %w", uint32(windowID), err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates of 0x%x: %w", uint32(windowID), err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// MoveWindow moves a window to root coordinates (x, y).
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).Move(x, y)
	}
	return nil
}

// ResizeWindow resizes a window keeping its origin.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	if err := ewmh.ResizeWindow(c.XUtil, windowID, width, height); err != nil {
		xwindow.New(c.XUtil, windowID).Resize(width, height)
	}
	return nil
}

// SetVisible maps or unmaps a window.
func (c *Connection) SetVisible(windowID xproto.Window, visible bool) error {
	win := xwindow.New(c.XUtil, windowID)
	if visible {
		win.Map()
	} else {
		win.Unmap()
	}
	return nil
}

// SetAlwaysOnTop adds or removes _NET_WM_STATE_ABOVE and
// _NET_WM_STATE_STICKY (visible on every desktop).
func (c *Connection) SetAlwaysOnTop(windowID xproto.Window, enabled bool) error {
	action := ewmh.StateRemove
	if enabled {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReqExtra(c.XUtil, windowID, action,
		"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_STICKY", 2); err != nil {
		return fmt.Errorf("failed to update _NET_WM_STATE: %w", err)
	}
	return nil
}

// SetDecorated toggles window manager decorations through _MOTIF_WM_HINTS.
func (c *Connection) SetDecorated(windowID xproto.Window, decorated bool) error {
	hints := &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
	if decorated {
		hints.Decoration = motif.DecorationAll
	}
	if err := motif.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	return nil
}

// SetInputPassthrough empties the window's SHAPE input region so pointer
// events fall through to whatever is below, or restores the default
// whole-window input region.
func (c *Connection) SetInputPassthrough(windowID xproto.Window, enabled bool) error {
	if err := c.requireShape(); err != nil {
		return err
	}
	conn := c.XUtil.Conn()
	if enabled {
		err := shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, windowID, 0, 0, nil).Check()
		if err != nil {
			return fmt.Errorf("failed to clear input shape: %w", err)
		}
		return nil
	}
	if err := shape.MaskChecked(conn, shape.SoSet, shape.SkInput, windowID, 0, 0, xproto.PixmapNone).Check(); err != nil {
		return fmt.Errorf("failed to reset input shape: %w", err)
	}
	return nil
}

// InputPassthrough reports whether the window's input region is empty.
func (c *Connection) InputPassthrough(windowID xproto.Window) (bool, error) {
	if err := c.requireShape(); err != nil {
		return false, err
	}
	reply, err := shape.GetRectangles(c.XUtil.Conn(), windowID, shape.SkInput).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to query input shape: %w", err)
	}
	return reply.RectanglesLen == 0, nil
}
