package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/deskpet/internal/placement"
)

type fakeBackend struct {
	display    Display
	displayErr error
	bounds     Rect
	moves      [][2]int
	resizes    [][2]int
	focus      []bool
	visible    []bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) DisplayForWindow(WindowID) (Display, error) {
	return f.display, f.displayErr
}

func (f *fakeBackend) WindowBounds(WindowID) (Rect, error) { return f.bounds, nil }

func (f *fakeBackend) Move(_ WindowID, x, y int) error {
	f.moves = append(f.moves, [2]int{x, y})
	return nil
}

func (f *fakeBackend) Resize(_ WindowID, w, h int) error {
	f.resizes = append(f.resizes, [2]int{w, h})
	return nil
}

func (f *fakeBackend) Focus(_ WindowID, focused bool) error {
	f.focus = append(f.focus, focused)
	return nil
}

func (f *fakeBackend) SetVisible(_ WindowID, visible bool) error {
	f.visible = append(f.visible, visible)
	return nil
}

func TestAbsoluteSurfaceAnchorOffsetsByDisplayOrigin(t *testing.T) {
	b := &fakeBackend{
		display: Display{Usable: Rect{X: 1920, Y: 32, Width: 1920, Height: 1048}},
		bounds:  Rect{Width: 160, Height: 380},
	}
	s := NewAbsoluteSurface(b, 7)

	if err := s.Anchor(placement.Default()); err != nil {
		t.Fatalf("Anchor returned error: %v", err)
	}
	if len(b.moves) != 1 {
		t.Fatalf("expected one move, got %d", len(b.moves))
	}
	want := [2]int{1920 + 1920 - 20 - 160, 32 + 1048 - 20 - 380}
	if b.moves[0] != want {
		t.Fatalf("move = %v, want %v", b.moves[0], want)
	}
}

func TestAbsoluteSurfaceUsesRequestedSize(t *testing.T) {
	b := &fakeBackend{
		display: Display{Usable: Rect{Width: 1920, Height: 1080}},
		bounds:  Rect{Width: 10, Height: 10},
	}
	s := NewAbsoluteSurface(b, 7)

	if err := s.Resize(placement.Size{Width: 740, Height: 600}); err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	geom, err := s.Geometry()
	if err != nil {
		t.Fatalf("Geometry returned error: %v", err)
	}
	if geom.Window != (placement.Size{Width: 740, Height: 600}) {
		t.Fatalf("window size = %+v, want 740x600", geom.Window)
	}
}

func TestAbsoluteSurfaceGeometryFailure(t *testing.T) {
	b := &fakeBackend{displayErr: errors.New("no monitor")}
	s := NewAbsoluteSurface(b, 7)

	if _, err := s.Geometry(); !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry, got %v", err)
	}
	if err := s.Anchor(placement.Default()); !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("Anchor should fail with ErrNoGeometry, got %v", err)
	}
	if len(b.moves) != 0 {
		t.Fatalf("expected no moves without geometry, got %v", b.moves)
	}
}

func TestAbsoluteSurfaceRejectsEmptySize(t *testing.T) {
	s := NewAbsoluteSurface(&fakeBackend{}, 7)
	if err := s.Resize(placement.Size{Width: 0, Height: 100}); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestAbsoluteSurfaceKeyboardMode(t *testing.T) {
	b := &fakeBackend{}
	s := NewAbsoluteSurface(b, 7)

	_ = s.SetKeyboardMode(KeyboardExclusive)
	_ = s.SetKeyboardMode(KeyboardOnDemand)
	if len(b.focus) != 2 || !b.focus[0] || b.focus[1] {
		t.Fatalf("focus calls = %v, want [true false]", b.focus)
	}
}
