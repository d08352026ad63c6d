package drag

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

// Move is the result of one drag step.
type Move struct {
	Placement placement.Placement
	// X and Y are the window's top-left corner relative to the usable screen
	// area. They are only set when Positioned is true.
	X, Y       int
	Positioned bool
}

// Outcome is the result of ending a gesture.
type Outcome struct {
	Quadrant placement.Quadrant
	Changed  bool
}

// Controller owns the window placement, the drag session and the cached
// quadrant. It is not safe for concurrent use; the host loop is its only
// caller.
type Controller struct {
	surface  platform.Surface
	band     int
	logger   *slog.Logger
	current  placement.Placement
	session  Session
	quadrant placement.Quadrant
	known    bool
}

// NewController creates a controller starting at initial. band is the
// hysteresis band in pixels.
func NewController(surface platform.Surface, initial placement.Placement, band int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		surface: surface,
		band:    band,
		logger:  logger,
		current: initial.Clamped(),
	}
}

// Placement returns the current placement.
func (c *Controller) Placement() placement.Placement { return c.current }

// Phase returns the drag phase.
func (c *Controller) Phase() Phase { return c.session.Phase }

// Quadrant returns the cached quadrant and whether one has been computed.
func (c *Controller) Quadrant() (placement.Quadrant, bool) { return c.quadrant, c.known }

// Init applies the current placement and classifies it without history.
// When the configured anchors disagree with the starting quadrant they are
// rebound. Without geometry the placement is still applied and the quadrant
// stays unknown.
func (c *Controller) Init() (placement.Quadrant, error) {
	if err := c.surface.Anchor(c.current); err != nil {
		c.logger.Warn("initial anchor failed", "placement", c.current.String(), "error", err)
	}
	geom, err := c.surface.Geometry()
	if err != nil {
		return placement.Quadrant{}, err
	}
	q := placement.Initial(c.current, geom.Screen.Size(), geom.Window)
	next, err := Rebind(c.surface, c.current, q, geom)
	if err != nil {
		return placement.Quadrant{}, err
	}
	c.current = next
	c.quadrant = q
	c.known = true
	return q, nil
}

// SetBand changes the hysteresis band used by later classifications.
func (c *Controller) SetBand(band int) {
	if band < 0 {
		band = 0
	}
	c.band = band
}

// Reapply re-sends the current placement, for example after a resize.
func (c *Controller) Reapply() error {
	return c.surface.Anchor(c.current)
}

// Position returns the top-left corner and the geometry it was computed in.
func (c *Controller) Position() (x, y int, geom platform.Geometry, err error) {
	geom, err = c.surface.Geometry()
	if err != nil {
		return 0, 0, platform.Geometry{}, err
	}
	x, y = c.current.TopLeft(geom.Screen.Size(), geom.Window)
	return x, y, geom, nil
}

// StartDrag snapshots the margins. It returns false when a gesture is
// already in progress.
func (c *Controller) StartDrag() bool {
	if !Begin(&c.session, c.current) {
		return false
	}
	c.logger.Debug("drag started", "placement", c.current.String())
	return true
}

// Drag applies the cumulative offset since StartDrag. ok is false when no
// gesture is active. The new margins are kept even when applying them to the
// window fails.
func (c *Controller) Drag(dx, dy float64) (m Move, ok bool, err error) {
	if !c.session.Active() {
		return Move{}, false, nil
	}
	c.current = Translate(c.session, c.current, dx, dy)
	m = Move{Placement: c.current}
	if err := c.surface.Anchor(c.current); err != nil {
		return m, true, fmt.Errorf("apply drag margins: %w", err)
	}
	if x, y, _, err := c.Position(); err == nil {
		m.X, m.Y, m.Positioned = x, y, true
	}
	return m, true, nil
}

// EndDrag closes the gesture, reclassifies the quadrant and rebinds the
// anchors when it changed. ok is false when no gesture was active. When the
// geometry is unavailable nothing beyond the session is touched.
func (c *Controller) EndDrag() (out Outcome, ok bool, err error) {
	if !Finish(&c.session) {
		return Outcome{}, false, nil
	}
	c.logger.Debug("drag ended", "placement", c.current.String())

	geom, err := c.surface.Geometry()
	if err != nil {
		return Outcome{Quadrant: c.quadrant}, true, err
	}
	screen := geom.Screen.Size()
	prev := c.quadrant
	if !c.known {
		prev = placement.Initial(c.current, screen, geom.Window)
	}
	next := placement.Classify(prev, c.current, screen, geom.Window, c.band)
	if c.known && next == prev {
		return Outcome{Quadrant: prev}, true, nil
	}

	rebased, err := Rebind(c.surface, c.current, next, geom)
	if err != nil {
		return Outcome{Quadrant: c.quadrant}, true, err
	}
	changed := !c.known || next != prev
	c.current = rebased
	c.quadrant = next
	c.known = true
	if changed {
		c.logger.Info("quadrant changed", "quadrant", next.String(), "placement", rebased.String())
	}
	return Outcome{Quadrant: next, Changed: changed}, true, nil
}
