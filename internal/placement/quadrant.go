package placement

// DefaultHysteresis is the half-width of the dead band around each screen
// midline, in pixels.
const DefaultHysteresis = 50

// Quadrant records which half of the screen the window centre is in on each
// axis.
type Quadrant struct {
	RightHalf  bool
	BottomHalf bool
}

func (q Quadrant) String() string {
	h := "left"
	if q.RightHalf {
		h = "right"
	}
	v := "top"
	if q.BottomHalf {
		v = "bottom"
	}
	return v + "-" + h
}

// Initial classifies a placement with no previous quadrant to compare
// against, splitting each axis exactly at the midpoint.
func Initial(p Placement, screen, window Size) Quadrant {
	cx, cy := p.Center(screen, window)
	return Quadrant{
		RightHalf:  cx >= screen.Width/2,
		BottomHalf: cy >= screen.Height/2,
	}
}

// Classify derives the quadrant for p, holding the previous half on each axis
// until the centre leaves the band [mid-band, mid+band] on the far side. Axes
// are evaluated independently.
func Classify(prev Quadrant, p Placement, screen, window Size, band int) Quadrant {
	if band < 0 {
		band = 0
	}
	cx, cy := p.Center(screen, window)
	return Quadrant{
		RightHalf:  classifyAxis(prev.RightHalf, cx, screen.Width/2, band),
		BottomHalf: classifyAxis(prev.BottomHalf, cy, screen.Height/2, band),
	}
}

func classifyAxis(wasFar bool, center, mid, band int) bool {
	if wasFar {
		return center > mid-band
	}
	return center >= mid+band
}
