package drag

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

// Rebind moves the anchors of p to the edges nearest quadrant next. Each
// flipped axis is rebased so the window's absolute corner does not move, and
// the new anchors and margins are applied in a single Anchor call. On error
// p is returned unchanged.
func Rebind(surface platform.Surface, p placement.Placement, next placement.Quadrant, geom platform.Geometry) (placement.Placement, error) {
	if !geom.Valid() {
		return p, platform.ErrNoGeometry
	}
	rebased := placement.Rebase(p, next.RightHalf, next.BottomHalf, geom.Screen.Size(), geom.Window)
	if rebased == p {
		return p, nil
	}
	if err := surface.Anchor(rebased); err != nil {
		return p, fmt.Errorf("apply rebased anchors: %w", err)
	}
	return rebased, nil
}
