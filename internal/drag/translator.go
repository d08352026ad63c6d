// Package drag turns renderer pointer gestures into window placements and
// rebinds the window's anchors when the drag crosses into another quadrant.
package drag

import (
	"math"

	"github.com/1broseidon/deskpet/internal/placement"
)

// Begin starts a gesture from p. It returns false, leaving s untouched, when
// a gesture is already in progress.
func Begin(s *Session, p placement.Placement) bool {
	if s.Active() {
		return false
	}
	s.Phase = PhaseDragging
	s.OriginHorizontal = p.MarginHorizontal
	s.OriginVertical = p.MarginVertical
	return true
}

// Translate computes the placement for a cumulative pointer offset since the
// gesture began. A positive dx moves the window right: the margin shrinks
// when measured from the right edge and grows when measured from the left.
// Margins are clamped at zero. Anchors are never changed here.
func Translate(s Session, p placement.Placement, dx, dy float64) placement.Placement {
	ox := pixels(dx)
	oy := pixels(dy)

	if p.AnchoredRight {
		p.MarginHorizontal = s.OriginHorizontal - ox
	} else {
		p.MarginHorizontal = s.OriginHorizontal + ox
	}
	if p.AnchoredBottom {
		p.MarginVertical = s.OriginVertical - oy
	} else {
		p.MarginVertical = s.OriginVertical + oy
	}
	return p.Clamped()
}

// maxOffset bounds a single offset well beyond any real screen.
const maxOffset = 1 << 20

func pixels(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(-maxOffset, math.Min(maxOffset, v))))
}

// Finish ends the gesture. It returns false when no gesture was active.
func Finish(s *Session) bool {
	if !s.Active() {
		return false
	}
	s.Reset()
	return true
}
