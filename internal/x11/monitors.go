package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Rect is a root-relative rectangle in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds Rect
	// Work is Bounds minus dock struts or the EWMH work area.
	Work Rect
}

// area is a half-open rectangle [x1,x2) x [y1,y2).
type area struct {
	x1, y1, x2, y2 int
}

func areaOf(r Rect) area {
	return area{x1: r.X, y1: r.Y, x2: r.X + r.Width, y2: r.Y + r.Height}
}

func (a area) intersect(b area) area {
	out := area{
		x1: max(a.x1, b.x1),
		y1: max(a.y1, b.y1),
		x2: min(a.x2, b.x2),
		y2: min(a.y2, b.y2),
	}
	if out.x2 <= out.x1 || out.y2 <= out.y1 {
		return area{}
	}
	return out
}

func (a area) empty() bool { return a.x2 <= a.x1 || a.y2 <= a.y1 }

func (a area) contains(x, y int) bool {
	return x >= a.x1 && x < a.x2 && y >= a.y1 && y < a.y2
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := Rect{X: int(info.X), Y: int(info.Y), Width: int(info.Width), Height: int(info.Height)}
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, Work: bounds})
	}

	return monitors, nil
}

// MonitorForWindow returns the monitor hosting the window's centre point,
// with Work trimmed to the usable area (docks and panels excluded). When the
// window is not mapped yet the monitor under the pointer is used instead.
func (c *Connection) MonitorForWindow(windowID xproto.Window) (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	var mon *Monitor
	if x, y, ok := c.windowCenter(windowID); ok {
		mon = monitorContaining(monitors, x, y)
	}
	if mon == nil {
		if x, y, ok := c.pointerPosition(); ok {
			mon = monitorContaining(monitors, x, y)
		}
	}
	if mon == nil {
		return nil, fmt.Errorf("window 0x%x is not on any monitor", uint32(windowID))
	}

	if struts, ok := c.dockStruts(mon.Bounds); ok {
		mon.Work = trimStruts(mon.Bounds, struts)
	} else if wa, ok := c.workArea(); ok {
		mon.Work = clipToWorkArea(mon.Bounds, wa)
	}
	return mon, nil
}

func monitorContaining(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		if areaOf(monitors[i].Bounds).contains(x, y) {
			return &monitors[i]
		}
	}
	return nil
}

func (c *Connection) windowCenter(id xproto.Window) (int, int, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(tr.DstX) + int(geom.Width)/2, int(tr.DstY) + int(geom.Height)/2, true
}

func (c *Connection) pointerPosition() (int, int, bool) {
	p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(p.RootX), int(p.RootY), true
}

// workArea returns _NET_WORKAREA for the current desktop.
func (c *Connection) workArea() (Rect, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return Rect{}, false
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]
	return Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}, true
}

// clipToWorkArea intersects the monitor with the work area. A work area
// that misses the monitor entirely leaves it untouched.
func clipToWorkArea(bounds, wa Rect) Rect {
	a := areaOf(bounds).intersect(areaOf(wa))
	if a.empty() {
		return bounds
	}
	return Rect{X: a.x1, Y: a.y1, Width: a.x2 - a.x1, Height: a.y2 - a.y1}
}

type struts struct {
	left, right, top, bottom int
}

func (s struts) zero() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

// dockStruts collects the struts of dock windows that overlap bounds.
func (c *Connection) dockStruts(bounds Rect) (struts, bool) {
	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return struts{}, false
	}
	rootW, rootH := int(root.Width), int(root.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return struts{}, false
	}

	var acc struts
	for _, id := range clients {
		if !c.isDock(id) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, id); err == nil {
			acc = addStrut(acc, bounds, rootW, rootH, sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT, which spans the whole edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, id); err == nil {
			acc = addStrut(acc, bounds, rootW, rootH, fullEdgeStrut(s, rootW, rootH))
		}
	}
	return acc, !acc.zero()
}

func (c *Connection) isDock(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullEdgeStrut(s *ewmh.WmStrut, rootW, rootH int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootH - 1),
		RightEndY:  uint(rootH - 1),
		TopEndX:    uint(rootW - 1),
		BottomEndX: uint(rootW - 1),
	}
}

// addStrut widens acc by the part of each reserved edge strip that overlaps
// the monitor.
func addStrut(acc struts, bounds Rect, rootW, rootH int, sp *ewmh.WmStrutPartial) struts {
	mon := areaOf(bounds)
	if sp.Top > 0 {
		strip := area{x1: int(sp.TopStartX), y1: 0, x2: int(sp.TopEndX) + 1, y2: int(sp.Top)}
		if a := mon.intersect(strip); !a.empty() {
			acc.top = max(acc.top, a.y2-a.y1)
		}
	}
	if sp.Bottom > 0 {
		strip := area{x1: int(sp.BottomStartX), y1: rootH - int(sp.Bottom), x2: int(sp.BottomEndX) + 1, y2: rootH}
		if a := mon.intersect(strip); !a.empty() {
			acc.bottom = max(acc.bottom, a.y2-a.y1)
		}
	}
	if sp.Left > 0 {
		strip := area{x1: 0, y1: int(sp.LeftStartY), x2: int(sp.Left), y2: int(sp.LeftEndY) + 1}
		if a := mon.intersect(strip); !a.empty() {
			acc.left = max(acc.left, a.x2-a.x1)
		}
	}
	if sp.Right > 0 {
		strip := area{x1: rootW - int(sp.Right), y1: int(sp.RightStartY), x2: rootW, y2: int(sp.RightEndY) + 1}
		if a := mon.intersect(strip); !a.empty() {
			acc.right = max(acc.right, a.x2-a.x1)
		}
	}
	return acc
}

func trimStruts(bounds Rect, s struts) Rect {
	return Rect{
		X:      bounds.X + s.left,
		Y:      bounds.Y + s.top,
		Width:  max(1, bounds.Width-s.left-s.right),
		Height: max(1, bounds.Height-s.top-s.bottom),
	}
}
