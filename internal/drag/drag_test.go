package drag

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

var (
	screenFHD = platform.Rect{Width: 1920, Height: 1080}
	collapsed = placement.Size{Width: 160, Height: 380}
)

type fakeSurface struct {
	geom    platform.Geometry
	geomErr error
	anchors []placement.Placement
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{geom: platform.Geometry{Screen: screenFHD, Window: collapsed}}
}

func (f *fakeSurface) Anchor(p placement.Placement) error {
	f.anchors = append(f.anchors, p)
	return nil
}

func (f *fakeSurface) Resize(size placement.Size) error {
	f.geom.Window = size
	return nil
}

func (f *fakeSurface) SetKeyboardMode(platform.KeyboardMode) error { return nil }

func (f *fakeSurface) SetVisible(bool) error { return nil }

func (f *fakeSurface) Geometry() (platform.Geometry, error) {
	if f.geomErr != nil {
		return platform.Geometry{}, f.geomErr
	}
	return f.geom, nil
}

func (f *fakeSurface) last() placement.Placement {
	return f.anchors[len(f.anchors)-1]
}

func TestPhaseString(t *testing.T) {
	if PhaseIdle.String() != "idle" || PhaseDragging.String() != "dragging" || Phase(9).String() != "unknown" {
		t.Fatalf("unexpected phase names")
	}
}

func TestTranslateDirections(t *testing.T) {
	tests := []struct {
		name   string
		p      placement.Placement
		dx, dy float64
		wantH  int
		wantV  int
	}{
		{"right/bottom move right-down shrinks", placement.Placement{MarginHorizontal: 100, MarginVertical: 100, AnchoredRight: true, AnchoredBottom: true}, 30, 40, 70, 60},
		{"right/bottom move left-up grows", placement.Placement{MarginHorizontal: 100, MarginVertical: 100, AnchoredRight: true, AnchoredBottom: true}, -30, -40, 130, 140},
		{"left/top move right-down grows", placement.Placement{MarginHorizontal: 100, MarginVertical: 100}, 30, 40, 130, 140},
		{"left/top move left-up shrinks", placement.Placement{MarginHorizontal: 100, MarginVertical: 100}, -30, -40, 70, 60},
		{"fractional offsets round", placement.Placement{MarginHorizontal: 100, MarginVertical: 100}, 10.6, -10.4, 111, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			if !Begin(&s, tt.p) {
				t.Fatalf("Begin returned false")
			}
			got := Translate(s, tt.p, tt.dx, tt.dy)
			if got.MarginHorizontal != tt.wantH || got.MarginVertical != tt.wantV {
				t.Fatalf("margins = (%d, %d), want (%d, %d)", got.MarginHorizontal, got.MarginVertical, tt.wantH, tt.wantV)
			}
			if got.AnchoredRight != tt.p.AnchoredRight || got.AnchoredBottom != tt.p.AnchoredBottom {
				t.Fatalf("Translate must not change anchors")
			}
		})
	}
}

func TestTranslateClampsAtZero(t *testing.T) {
	p := placement.Default()
	var s Session
	Begin(&s, p)
	got := Translate(s, p, 5000, 5000)
	if got.MarginHorizontal != 0 || got.MarginVertical != 0 {
		t.Fatalf("margins = (%d, %d), want (0, 0)", got.MarginHorizontal, got.MarginVertical)
	}
}

func TestTranslateIgnoresNaN(t *testing.T) {
	p := placement.Default()
	var s Session
	Begin(&s, p)
	var zero float64
	got := Translate(s, p, zero/zero, 0)
	if got.MarginHorizontal != p.MarginHorizontal {
		t.Fatalf("NaN offset moved the window to %d", got.MarginHorizontal)
	}
}

func TestDragRoundTrip(t *testing.T) {
	offsets := [][2]float64{{0, 0}, {-900, -900}, {35, -12}, {1000, 1000}, {-3000, 250}}
	for _, off := range offsets {
		single := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
		single.StartDrag()
		want, _, _ := single.Drag(off[0], off[1])

		seq := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
		seq.StartDrag()
		seq.Drag(off[0], off[1])
		seq.Drag(0, 0)
		got, _, _ := seq.Drag(off[0], off[1])

		if got.Placement != want.Placement {
			t.Fatalf("offset %v: sequence gave %s, single gave %s", off, got.Placement, want.Placement)
		}
	}
}

func TestDragZeroReturnsToOrigin(t *testing.T) {
	c := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
	c.StartDrag()
	c.Drag(-300, -200)
	m, _, _ := c.Drag(0, 0)
	if m.Placement != placement.Default() {
		t.Fatalf("drag(0,0) = %s, want %s", m.Placement, placement.Default())
	}
}

func TestDragWithoutStartIsIgnored(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, placement.Default(), placement.DefaultHysteresis, nil)

	if _, ok, err := c.Drag(-100, -100); ok || err != nil {
		t.Fatalf("Drag while idle: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := c.EndDrag(); ok {
		t.Fatalf("EndDrag while idle should be ignored")
	}
	if c.Placement() != placement.Default() || len(surface.anchors) != 0 {
		t.Fatalf("idle gestures must not move the window")
	}
}

func TestSecondStartDragIgnored(t *testing.T) {
	c := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
	if !c.StartDrag() {
		t.Fatalf("first StartDrag returned false")
	}
	c.Drag(-100, 0)
	if c.StartDrag() {
		t.Fatalf("second StartDrag should be ignored")
	}
	m, _, _ := c.Drag(-150, 0)
	if m.Placement.MarginHorizontal != 170 {
		t.Fatalf("origin was re-snapshotted: margin %d, want 170", m.Placement.MarginHorizontal)
	}
}

func TestDragReportsPosition(t *testing.T) {
	c := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
	c.StartDrag()
	m, ok, err := c.Drag(-100, -50)
	if !ok || err != nil {
		t.Fatalf("Drag: ok=%v err=%v", ok, err)
	}
	if !m.Positioned || m.X != 1920-120-160 || m.Y != 1080-70-380 {
		t.Fatalf("position = (%d, %d, %v)", m.X, m.Y, m.Positioned)
	}
}

func TestDragWithoutGeometryMovesMarginsOnly(t *testing.T) {
	surface := newFakeSurface()
	surface.geomErr = platform.ErrNoGeometry
	c := NewController(surface, placement.Default(), placement.DefaultHysteresis, nil)

	c.StartDrag()
	m, ok, err := c.Drag(-100, 0)
	if !ok || err != nil {
		t.Fatalf("Drag: ok=%v err=%v", ok, err)
	}
	if m.Positioned {
		t.Fatalf("position must not be invented without geometry")
	}
	if m.Placement.MarginHorizontal != 120 {
		t.Fatalf("margin = %d, want 120", m.Placement.MarginHorizontal)
	}

	anchorsBefore := len(surface.anchors)
	out, ok, err := c.EndDrag()
	if !ok || !errors.Is(err, platform.ErrNoGeometry) {
		t.Fatalf("EndDrag: ok=%v err=%v", ok, err)
	}
	if out.Changed || len(surface.anchors) != anchorsBefore {
		t.Fatalf("no rebind may happen without geometry")
	}
	if _, known := c.Quadrant(); known {
		t.Fatalf("quadrant must stay unknown")
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("EndDrag must always end the session")
	}
}

func TestInitScenario(t *testing.T) {
	c := NewController(newFakeSurface(), placement.Default(), placement.DefaultHysteresis, nil)
	q, err := c.Init()
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if q != (placement.Quadrant{RightHalf: true, BottomHalf: true}) {
		t.Fatalf("initial quadrant = %s", q)
	}
}

func TestInitRebindsMismatchedAnchors(t *testing.T) {
	surface := newFakeSurface()
	// Anchored left but sitting in the right half.
	start := placement.Placement{MarginHorizontal: 1700, MarginVertical: 20, AnchoredRight: false, AnchoredBottom: true}
	c := NewController(surface, start, placement.DefaultHysteresis, nil)
	if _, err := c.Init(); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	got := c.Placement()
	if !got.AnchoredRight || got.MarginHorizontal != 1920-1700-160 {
		t.Fatalf("placement after init = %s", got)
	}
}

func TestScenarioDragIntoBand(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, placement.Default(), placement.DefaultHysteresis, nil)
	c.Init()

	c.StartDrag()
	m, _, _ := c.Drag(-900, -900)
	if m.Placement.MarginHorizontal != 920 || m.Placement.MarginVertical != 920 {
		t.Fatalf("margins = %s, want 920/920", m.Placement)
	}
	out, _, err := c.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag returned error: %v", err)
	}
	// Horizontal centre is 920, inside the band around 960: stays right.
	// Vertical centre is -30, far past the band: flips to top.
	want := placement.Quadrant{RightHalf: true, BottomHalf: false}
	if !out.Changed || out.Quadrant != want {
		t.Fatalf("outcome = %+v, want changed to %s", out, want)
	}
	got := c.Placement()
	if !got.AnchoredRight || got.AnchoredBottom {
		t.Fatalf("anchors = %s, want right/top", got)
	}
	if got.MarginHorizontal != 920 {
		t.Fatalf("horizontal margin changed to %d", got.MarginHorizontal)
	}
	// The window overhung the top edge, so the top margin clamps to zero.
	if got.MarginVertical != 0 {
		t.Fatalf("top margin = %d, want 0", got.MarginVertical)
	}
	if surface.last() != got {
		t.Fatalf("rebased placement was not applied")
	}
}

func TestScenarioDragAcrossBothBands(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, placement.Default(), placement.DefaultHysteresis, nil)
	c.Init()

	c.StartDrag()
	c.Drag(-960, -600)
	beforeX, beforeY, _, _ := c.Position()
	anchorsBefore := len(surface.anchors)

	out, _, err := c.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag returned error: %v", err)
	}
	if !out.Changed || out.Quadrant != (placement.Quadrant{}) {
		t.Fatalf("outcome = %+v, want changed to left/top", out)
	}
	got := c.Placement()
	want := placement.Placement{MarginHorizontal: 780, MarginVertical: 80}
	if got != want {
		t.Fatalf("placement = %s, want %s", got, want)
	}
	afterX, afterY, _, _ := c.Position()
	if afterX != beforeX || afterY != beforeY {
		t.Fatalf("corner moved from (%d,%d) to (%d,%d)", beforeX, beforeY, afterX, afterY)
	}
	if len(surface.anchors) != anchorsBefore+1 {
		t.Fatalf("expected exactly one anchor update, got %d", len(surface.anchors)-anchorsBefore)
	}
}

func TestEndDragWithinBandKeepsQuadrant(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface, placement.Default(), placement.DefaultHysteresis, nil)
	c.Init()

	// Centre lands at 940 horizontally: left of the midpoint but inside the band.
	c.StartDrag()
	c.Drag(-880, 0)
	anchorsBefore := len(surface.anchors)
	out, _, err := c.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag returned error: %v", err)
	}
	if out.Changed {
		t.Fatalf("quadrant should not change inside the band: %+v", out)
	}
	if len(surface.anchors) != anchorsBefore {
		t.Fatalf("no rebind expected")
	}
}

func TestRebindRequiresGeometry(t *testing.T) {
	surface := newFakeSurface()
	p := placement.Default()
	got, err := Rebind(surface, p, placement.Quadrant{}, platform.Geometry{})
	if !errors.Is(err, platform.ErrNoGeometry) || got != p || len(surface.anchors) != 0 {
		t.Fatalf("Rebind without geometry: %s, %v", got, err)
	}
}
