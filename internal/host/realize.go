package host

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/bridge"
	"github.com/1broseidon/deskpet/internal/drag"
	"github.com/1broseidon/deskpet/internal/overlay"
	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

// realize runs once the renderer's window exists. It binds the surface and
// overlay backend, puts the window into overlay mode and applies the
// placement, rebinding anchors to the starting quadrant.
func (l *Loop) realize(msg bridge.Message) {
	if err := l.bind(msg); err != nil {
		l.logger.Error("failed to realize pet window", "error", err)
		l.send(bridge.NewErrorEvent(err))
		return
	}

	if err := l.ov.SetOverlayMode(true); err != nil {
		l.logger.Warn("overlay mode failed", "backend", string(l.kind), "error", err)
	}
	if !l.visible {
		if err := l.surface.SetVisible(false); err != nil {
			l.logger.Warn("failed to keep pet hidden", "error", err)
		}
	}

	q, err := l.ctrl.Init()
	if err != nil {
		l.logger.Warn("initial placement without geometry", "error", err)
		return
	}
	l.logger.Info("pet window realized",
		"backend", string(l.kind),
		"placement", l.ctrl.Placement().String(),
		"quadrant", q.String(),
	)
	l.sendInitialState()
}

func (l *Loop) bind(msg bridge.Message) error {
	if l.kind.HelperOwned() {
		screen, err := l.helperScreen(msg)
		if err != nil {
			return err
		}
		l.helper.SetScreen(screen)
		return nil
	}

	if l.native == nil {
		return fmt.Errorf("%s backend has no window-system connection", l.kind)
	}
	id := platform.WindowID(msg.WindowID)
	if id == 0 {
		finder, ok := l.native.(windowFinder)
		if !ok {
			return fmt.Errorf("realize on %s requires a window id", l.kind)
		}
		found, err := finder.FindWindow(l.cfg.WindowTitle)
		if err != nil {
			return fmt.Errorf("failed to find window %q: %w", l.cfg.WindowTitle, err)
		}
		id = found
	}

	ov, err := l.open(l.kind, nil, l.native, id)
	if err != nil {
		return fmt.Errorf("failed to open %s overlay: %w", l.kind, err)
	}

	// A second realize (the helper recreated its window) keeps the placement
	// the user dragged to.
	start := l.cfg.InitialPlacement()
	if l.ctrl != nil {
		start = l.ctrl.Placement()
	}
	surface := platform.NewAbsoluteSurface(l.native, id)
	l.surface = surface
	l.ov = ov
	l.ctrl = drag.NewController(surface, start, l.cfg.HysteresisPx, l.logger)
	l.clickThrough = false
	l.regionNoops = 0
	return nil
}

// helperScreen is the usable screen size of a helper-owned window. Wayland
// helpers must report it; on macOS the primary display stands in.
func (l *Loop) helperScreen(msg bridge.Message) (placement.Size, error) {
	if msg.ScreenWidth > 0 && msg.ScreenHeight > 0 {
		return placement.Size{Width: msg.ScreenWidth, Height: msg.ScreenHeight}, nil
	}
	if l.kind != overlay.KindMacOS {
		return placement.Size{}, fmt.Errorf("realize on %s requires the output size", l.kind)
	}
	d, err := l.display()
	if err != nil {
		return placement.Size{}, fmt.Errorf("realize on %s without a screen size: %w", l.kind, err)
	}
	return d.Usable.Size(), nil
}
