package host

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/deskpet/internal/bridge"
	"github.com/1broseidon/deskpet/internal/command"
	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/overlay"
	"github.com/1broseidon/deskpet/internal/platform"
	"github.com/1broseidon/deskpet/internal/sysinfo"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingSender struct {
	mu   sync.Mutex
	sent []any
}

func (s *recordingSender) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, v)
	return nil
}

func (s *recordingSender) all() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.sent...)
}

func (s *recordingSender) reset() {
	s.mu.Lock()
	s.sent = nil
	s.mu.Unlock()
}

func lastOf[T any](t *testing.T, s *recordingSender) T {
	t.Helper()
	sent := s.all()
	for i := len(sent) - 1; i >= 0; i-- {
		if v, ok := sent[i].(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T was sent; got %#v", zero, sent)
	return zero
}

func countOf[T any](s *recordingSender) int {
	n := 0
	for _, v := range s.all() {
		if _, ok := v.(T); ok {
			n++
		}
	}
	return n
}

func petConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Window.Width = 160
	cfg.Window.Height = 380
	cfg.Window.CollapsedWidth = 160
	return cfg
}

func newWaylandLoop(t *testing.T) (*Loop, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	l, err := NewLoop(Options{
		Config:  petConfig(),
		Kind:    overlay.KindWayland,
		Link:    sender,
		Inbound: make(chan bridge.Message),
		Logger:  quietLogger,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	return l, sender
}

func realizeWayland(t *testing.T, l *Loop) {
	t.Helper()
	l.handleMessage(context.Background(), bridge.Message{
		Action:       bridge.ActionRealize,
		ScreenWidth:  1920,
		ScreenHeight: 1080,
	})
}

func TestWaylandRealizeSendsInitialState(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)

	layer := lastOf[bridge.LayerDirective](t, sender)
	if layer.Layer != overlay.LayerOverlay {
		t.Fatalf("layer = %q, want overlay", layer.Layer)
	}
	got := lastOf[bridge.InitialState](t, sender)
	want := bridge.InitialState{
		Event:        "initialState",
		X:            1740,
		Y:            680,
		IsRightHalf:  true,
		IsBottomHalf: true,
		ScreenWidth:  1920,
		ScreenHeight: 1080,
	}
	if got != want {
		t.Fatalf("initialState = %+v, want %+v", got, want)
	}
}

func TestWaylandRealizeRequiresScreenSize(t *testing.T) {
	l, sender := newWaylandLoop(t)
	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionRealize})
	if countOf[bridge.ErrorEvent](sender) != 1 {
		t.Fatalf("expected an error event, got %#v", sender.all())
	}
}

func TestDragGestureFlipsQuadrant(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	sender.reset()
	ctx := context.Background()

	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionStartDrag})
	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionDrag, OffsetX: -900, OffsetY: -900})

	move := lastOf[bridge.CharacterMove](t, sender)
	if move.X != 840 || move.Y != -220 {
		t.Fatalf("characterMove = (%d, %d), want (840, -220)", move.X, move.Y)
	}

	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionEndDrag})
	change := lastOf[bridge.QuadrantChange](t, sender)
	if !change.IsRightHalf || change.IsBottomHalf {
		t.Fatalf("quadrantChange = %+v, want right/top", change)
	}
	anchor := lastOf[bridge.AnchorDirective](t, sender)
	want := bridge.AnchorDirective{Directive: "anchor", Right: true, Bottom: false, MarginHorizontal: 920, MarginVertical: 0}
	if anchor != want {
		t.Fatalf("anchor = %+v, want %+v", anchor, want)
	}

	status := l.Status()
	if status.DragPhase != "idle" || !status.Quadrant.Known || status.Quadrant.IsBottomHalf {
		t.Fatalf("status = %+v", status)
	}
}

func TestDragWithoutStartIsIgnored(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	sender.reset()

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionDrag, OffsetX: 10})
	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionEndDrag})
	if len(sender.all()) != 0 {
		t.Fatalf("expected nothing sent, got %#v", sender.all())
	}
}

func TestSmallDragKeepsQuadrant(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	sender.reset()
	ctx := context.Background()

	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionStartDrag})
	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionDrag, OffsetX: -30, OffsetY: -30})
	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionEndDrag})
	if n := countOf[bridge.QuadrantChange](sender); n != 0 {
		t.Fatalf("quadrantChange sent %d times for a small drag", n)
	}
}

func TestGetQuadrantBeforeRealize(t *testing.T) {
	l, sender := newWaylandLoop(t)
	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionGetQuadrant})
	if countOf[bridge.InitialState](sender) != 0 {
		t.Fatalf("initialState must not be invented without geometry")
	}
	if countOf[bridge.ErrorEvent](sender) != 1 {
		t.Fatalf("expected an error event, got %#v", sender.all())
	}
}

func TestResizePulsesKeyboardFocus(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	sender.reset()

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionResize, Width: 740, Height: 600})
	if got := lastOf[bridge.ResizeDirective](t, sender); got.Width != 740 || got.Height != 600 {
		t.Fatalf("resize = %+v", got)
	}
	if got := lastOf[bridge.KeyboardModeDirective](t, sender); got.Mode != string(platform.KeyboardExclusive) {
		t.Fatalf("keyboard mode = %q, want exclusive", got.Mode)
	}
	if l.focusRelease == nil {
		t.Fatalf("focus release timer not armed")
	}
	// Re-anchored for the new size.
	if got := lastOf[bridge.AnchorDirective](t, sender); !got.Right || !got.Bottom {
		t.Fatalf("anchor after resize = %+v", got)
	}

	l.releaseFocus()
	if got := lastOf[bridge.KeyboardModeDirective](t, sender); got.Mode != string(platform.KeyboardOnDemand) {
		t.Fatalf("keyboard mode = %q, want on_demand", got.Mode)
	}
	if l.focusRelease != nil {
		t.Fatalf("focus release timer still armed")
	}
}

func TestCollapseDoesNotGrabFocus(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	sender.reset()

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionResize, Width: 160, Height: 380})
	if n := countOf[bridge.KeyboardModeDirective](sender); n != 0 {
		t.Fatalf("keyboard mode changed %d times on collapse", n)
	}
}

func TestWaylandInputRegionModes(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)
	ctx := context.Background()

	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionSetInputRegion, Mode: bridge.RegionCharacter, X: 10, Y: 20, Width: 100, Height: 200})
	region := lastOf[bridge.InputRegionDirective](t, sender)
	if region.X != 10 || region.Y != 20 || region.Width != 100 || region.Height != 200 || region.Empty {
		t.Fatalf("input region = %+v", region)
	}

	sender.reset()
	l.handleMessage(ctx, bridge.Message{Action: bridge.ActionSetInputRegion, Mode: bridge.RegionFull})
	if len(sender.all()) != 1 {
		t.Fatalf("expected a single clear directive, got %#v", sender.all())
	}
}

func TestHideAndControls(t *testing.T) {
	l, sender := newWaylandLoop(t)
	realizeWayland(t, l)

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionHide})
	if got := lastOf[bridge.Visibility](t, sender); got.Visible {
		t.Fatalf("visibility = %+v after hide", got)
	}

	if stop := l.applyControl(ipc.Control{Command: ipc.CommandToggle}); stop {
		t.Fatalf("toggle must not stop the loop")
	}
	if got := lastOf[bridge.VisibleDirective](t, sender); !got.Visible {
		t.Fatalf("visible directive = %+v after toggle", got)
	}
	l.publish()
	if !l.Status().Visible {
		t.Fatalf("status not visible after toggle")
	}

	l.applyControl(ipc.Control{Command: ipc.CommandSetClickThrough, Enabled: true})
	if got := lastOf[bridge.InputRegionDirective](t, sender); !got.Empty {
		t.Fatalf("click-through should send an empty region, got %+v", got)
	}
	l.publish()
	if !l.Status().ClickThrough {
		t.Fatalf("status click_through = false")
	}

	if !l.applyControl(ipc.Control{Command: ipc.CommandQuit}) {
		t.Fatalf("quit control should stop the loop")
	}
}

func TestReloadUpdatesBand(t *testing.T) {
	l, _ := newWaylandLoop(t)
	l.reload = func() (*config.Config, error) {
		cfg := petConfig()
		cfg.HysteresisPx = 5
		cfg.FocusPulseMs = 80
		return cfg, nil
	}
	l.applyControl(ipc.Control{Command: ipc.CommandReload})
	if l.cfg.HysteresisPx != 5 || l.cfg.FocusPulseMs != 80 {
		t.Fatalf("config not reloaded: %+v", l.cfg)
	}

	l.reload = func() (*config.Config, error) { return nil, errors.New("bad yaml") }
	l.applyControl(ipc.Control{Command: ipc.CommandReload})
	if l.cfg.HysteresisPx != 5 {
		t.Fatalf("failed reload changed config")
	}
}

type fakeRunner struct {
	started []string
	err     error
	results chan command.Result
}

func (r *fakeRunner) Start(_ context.Context, id, cmdline string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.started = append(r.started, cmdline)
	return id, nil
}

func (r *fakeRunner) Results() <-chan command.Result { return r.results }

func TestCommandResultsForwarded(t *testing.T) {
	l, sender := newWaylandLoop(t)
	runner := &fakeRunner{results: make(chan command.Result, 4)}
	l.runner = runner

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionExecuteCommand, ID: "c1", Command: "ls"})
	if len(runner.started) != 1 || runner.started[0] != "ls" {
		t.Fatalf("started = %v", runner.started)
	}

	runner.results <- command.Result{ID: "c1", Kind: command.KindStdout, Line: "a.txt"}
	runner.results <- command.Result{ID: "c1", Kind: command.KindStderr, Line: "warn"}
	runner.results <- command.Result{ID: "c1", Kind: command.KindComplete, ExitCode: 0}
	l.drainCommandResults()

	sent := sender.all()
	if len(sent) != 3 {
		t.Fatalf("sent %d events, want 3: %#v", len(sent), sent)
	}
	if out := sent[0].(bridge.CommandOutput); out.Event != "commandStdout" || out.Line != "a.txt" {
		t.Fatalf("stdout event = %+v", out)
	}
	if out := sent[1].(bridge.CommandOutput); out.Event != "commandStderr" {
		t.Fatalf("stderr event = %+v", out)
	}
	if done := sent[2].(bridge.CommandComplete); done.ExitCode != 0 || done.Error != "" {
		t.Fatalf("complete event = %+v", done)
	}
}

func TestCommandStartFailureCompletes(t *testing.T) {
	l, sender := newWaylandLoop(t)
	l.runner = &fakeRunner{err: command.ErrEmptyCommand, results: make(chan command.Result)}

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionExecuteCommand, ID: "c2"})
	done := lastOf[bridge.CommandComplete](t, sender)
	if done.ID != "c2" || done.ExitCode != command.NoExitCode || done.Error == "" {
		t.Fatalf("complete = %+v", done)
	}
}

type staticProber struct{ info sysinfo.Info }

func (p staticProber) Probe(context.Context) sysinfo.Info { return p.info }

func TestRunAnswersSystemInfoAndQuits(t *testing.T) {
	sender := &recordingSender{}
	inbound := make(chan bridge.Message)
	l, err := NewLoop(Options{
		Config:  petConfig(),
		Kind:    overlay.KindWayland,
		Link:    sender,
		Inbound: inbound,
		Prober:  staticProber{info: sysinfo.Info{OS: "linux", Arch: "amd64"}},
		Logger:  quietLogger,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()

	inbound <- bridge.Message{Action: bridge.ActionGetSystemInfo}
	deadline := time.Now().Add(5 * time.Second)
	for countOf[bridge.SystemInfo](sender) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("systemInfo never sent")
		}
		time.Sleep(5 * time.Millisecond)
	}

	inbound <- bridge.Message{Action: bridge.ActionQuit}
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after quit")
	}
}

func TestRunStopsWhenLinkCloses(t *testing.T) {
	inbound := make(chan bridge.Message)
	l, err := NewLoop(Options{
		Config:  petConfig(),
		Kind:    overlay.KindWayland,
		Link:    &recordingSender{},
		Inbound: inbound,
		Logger:  quietLogger,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	close(inbound)
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Status().RendererConnected {
		t.Fatalf("renderer still reported connected")
	}
}

func TestNewLoopRequiresLink(t *testing.T) {
	if _, err := NewLoop(Options{Config: petConfig()}); err == nil {
		t.Fatalf("expected error without a renderer link")
	}
}

func TestCommandResultsDrainIsBounded(t *testing.T) {
	l, sender := newWaylandLoop(t)
	total := maxResultsPerTick + 44
	runner := &fakeRunner{results: make(chan command.Result, total)}
	l.runner = runner
	for i := 0; i < total; i++ {
		runner.results <- command.Result{ID: "c1", Kind: command.KindStdout, Line: "tick"}
	}

	l.drainCommandResults()
	if got := countOf[bridge.CommandOutput](sender); got != maxResultsPerTick {
		t.Fatalf("first drain forwarded %d results, want %d", got, maxResultsPerTick)
	}
	l.drainCommandResults()
	if got := countOf[bridge.CommandOutput](sender); got != total {
		t.Fatalf("second drain left %d results forwarded, want %d", got, total)
	}
}

func newMacOSLoop(t *testing.T, display DisplayProber) (*Loop, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	l, err := NewLoop(Options{
		Config:      petConfig(),
		Kind:        overlay.KindMacOS,
		Link:        sender,
		Inbound:     make(chan bridge.Message),
		MainDisplay: display,
		Logger:      quietLogger,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	return l, sender
}

func TestMacOSWindowIsDrivenThroughHelper(t *testing.T) {
	l, sender := newMacOSLoop(t, nil)
	l.handleMessage(context.Background(), bridge.Message{
		Action:       bridge.ActionRealize,
		WindowID:     0x7f8e4c00,
		ScreenWidth:  1440,
		ScreenHeight: 875,
	})

	if !lastOf[bridge.OverlayDirective](t, sender).Enabled {
		t.Fatalf("expected overlay directive on realize")
	}
	if countOf[bridge.AnchorDirective](sender) == 0 {
		t.Fatalf("expected placement to be sent as an anchor directive")
	}
	state := lastOf[bridge.InitialState](t, sender)
	if state.ScreenWidth != 1440 || state.ScreenHeight != 875 {
		t.Fatalf("initialState screen = %dx%d, want 1440x875", state.ScreenWidth, state.ScreenHeight)
	}

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionSetClickThrough, Enabled: true})
	if !lastOf[bridge.IgnoreMouseDirective](t, sender).Ignore {
		t.Fatalf("expected ignoresMouseEvents directive")
	}
	if !l.clickThrough {
		t.Fatalf("loop should record click-through")
	}

	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionSetInputRegion, Mode: bridge.RegionFull})
	if lastOf[bridge.IgnoreMouseDirective](t, sender).Ignore {
		t.Fatalf("full input region should turn click-through off")
	}
}

func TestMacOSRealizeFallsBackToPrimaryDisplay(t *testing.T) {
	display := func() (platform.Display, error) {
		return platform.Display{Usable: platform.Rect{Y: 25, Width: 1440, Height: 850}}, nil
	}
	l, sender := newMacOSLoop(t, display)
	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionRealize})

	if n := countOf[bridge.ErrorEvent](sender); n != 0 {
		t.Fatalf("unexpected error events: %#v", sender.all())
	}
	state := lastOf[bridge.InitialState](t, sender)
	if state.ScreenWidth != 1440 || state.ScreenHeight != 850 {
		t.Fatalf("initialState screen = %dx%d, want 1440x850", state.ScreenWidth, state.ScreenHeight)
	}
}

func TestMacOSRealizeWithoutAnyScreenFails(t *testing.T) {
	display := func() (platform.Display, error) { return platform.Display{}, platform.ErrNoGeometry }
	l, sender := newMacOSLoop(t, display)
	l.handleMessage(context.Background(), bridge.Message{Action: bridge.ActionRealize})
	if countOf[bridge.ErrorEvent](sender) != 1 {
		t.Fatalf("expected an error event, got %#v", sender.all())
	}
}
