package placement

import "fmt"

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Placement stores the window position as margins measured from one edge per
// axis. AnchoredRight=false means the horizontal margin is measured from the
// left edge; AnchoredBottom=false means the vertical margin is measured from
// the top edge.
type Placement struct {
	MarginHorizontal int
	MarginVertical   int
	AnchoredRight    bool
	AnchoredBottom   bool
}

// Default is the startup placement: bottom-right corner, 20px in.
func Default() Placement {
	return Placement{
		MarginHorizontal: 20,
		MarginVertical:   20,
		AnchoredRight:    true,
		AnchoredBottom:   true,
	}
}

func (p Placement) String() string {
	h := "left"
	if p.AnchoredRight {
		h = "right"
	}
	v := "top"
	if p.AnchoredBottom {
		v = "bottom"
	}
	return fmt.Sprintf("%s=%d %s=%d", h, p.MarginHorizontal, v, p.MarginVertical)
}

// Clamped returns p with negative margins raised to zero.
func (p Placement) Clamped() Placement {
	p.MarginHorizontal = clamp(p.MarginHorizontal)
	p.MarginVertical = clamp(p.MarginVertical)
	return p
}

// TopLeft returns the window's top-left corner relative to the screen origin.
func (p Placement) TopLeft(screen, window Size) (x, y int) {
	x = axisOrigin(p.MarginHorizontal, p.AnchoredRight, screen.Width, window.Width)
	y = axisOrigin(p.MarginVertical, p.AnchoredBottom, screen.Height, window.Height)
	return x, y
}

// Center returns the window's centre point relative to the screen origin.
func (p Placement) Center(screen, window Size) (x, y int) {
	x, y = p.TopLeft(screen, window)
	return x + window.Width/2, y + window.Height/2
}

// FromTopLeft builds the placement that puts the window's corner at (x, y)
// when measured from the requested edges.
func FromTopLeft(x, y int, anchoredRight, anchoredBottom bool, screen, window Size) Placement {
	return Placement{
		MarginHorizontal: clamp(axisMargin(x, anchoredRight, screen.Width, window.Width)),
		MarginVertical:   clamp(axisMargin(y, anchoredBottom, screen.Height, window.Height)),
		AnchoredRight:    anchoredRight,
		AnchoredBottom:   anchoredBottom,
	}
}

// Rebase re-expresses p against new anchor edges while keeping the window's
// visible corner where it is. Only axes whose anchor flips are recomputed:
// new = screen - old - window, clamped at zero. Flipping an axis and flipping
// it back restores the original margin whenever the window fits on that axis.
func Rebase(p Placement, anchoredRight, anchoredBottom bool, screen, window Size) Placement {
	out := p
	if anchoredRight != p.AnchoredRight {
		out.MarginHorizontal = clamp(screen.Width - p.MarginHorizontal - window.Width)
		out.AnchoredRight = anchoredRight
	}
	if anchoredBottom != p.AnchoredBottom {
		out.MarginVertical = clamp(screen.Height - p.MarginVertical - window.Height)
		out.AnchoredBottom = anchoredBottom
	}
	return out
}

func axisOrigin(margin int, farEdge bool, screen, window int) int {
	if farEdge {
		return screen - margin - window
	}
	return margin
}

func axisMargin(origin int, farEdge bool, screen, window int) int {
	if farEdge {
		return screen - origin - window
	}
	return origin
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
