// Package host runs the pet's event loop. The loop is the single owner of
// the window placement, the drag session and the cached quadrant; renderer
// messages, command output and control requests all reach it through
// channels.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskpet/internal/bridge"
	"github.com/1broseidon/deskpet/internal/command"
	"github.com/1broseidon/deskpet/internal/config"
	"github.com/1broseidon/deskpet/internal/drag"
	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/overlay"
	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
	"github.com/1broseidon/deskpet/internal/sysinfo"
)

// maxResultsPerTick caps command output forwarded per poll.
const maxResultsPerTick = 256

// CommandRunner starts renderer-requested shell commands.
type CommandRunner interface {
	Start(ctx context.Context, id, command string) (string, error)
	Results() <-chan command.Result
}

// SystemProber answers getSystemInfo.
type SystemProber interface {
	Probe(ctx context.Context) sysinfo.Info
}

// OverlayOpener builds the overlay backend once the window exists.
type OverlayOpener func(kind overlay.Kind, helper overlay.HelperWindow, native platform.Backend, handle platform.WindowID) (overlay.Backend, error)

// DisplayProber returns the display to assume when a helper-owned window is
// realized without reporting its screen.
type DisplayProber func() (platform.Display, error)

// ConfigReloader re-reads the configuration for RELOAD controls.
type ConfigReloader func() (*config.Config, error)

// windowFinder is implemented by native backends that can look a window up
// by title.
type windowFinder interface {
	FindWindow(title string) (platform.WindowID, error)
}

// Options wires a Loop. Config, Kind, Link and Inbound are required.
type Options struct {
	Config   *config.Config
	Kind     overlay.Kind
	Link     bridge.Sender
	Inbound  <-chan bridge.Message
	Controls <-chan ipc.Control
	// Native is the window-system backend. It is unused when the helper
	// owns the window.
	Native      platform.Backend
	Runner      CommandRunner
	Prober      SystemProber
	Open        OverlayOpener
	MainDisplay DisplayProber
	Reload      ConfigReloader
	Logger      *slog.Logger
	Started     time.Time
}

// Loop is the host event loop. Everything except Status must only be called
// from the goroutine running Run.
type Loop struct {
	cfg      *config.Config
	kind     overlay.Kind
	link     bridge.Sender
	inbound  <-chan bridge.Message
	controls <-chan ipc.Control
	native   platform.Backend
	runner   CommandRunner
	prober   SystemProber
	open     OverlayOpener
	display  DisplayProber
	reload   ConfigReloader
	logger   *slog.Logger

	helper  *bridge.HelperSurface
	surface platform.Surface
	ctrl    *drag.Controller
	ov      overlay.Backend

	visible      bool
	clickThrough bool
	regionNoops  int
	connected    bool

	focusRelease <-chan time.Time
	focusTimer   *time.Timer
	sysinfo      chan sysinfo.Info

	status *statusBoard
}

// NewLoop validates opts and prepares the loop. When the helper owns the
// window (Wayland, macOS) the surface and overlay backend exist from the
// start; elsewhere they are bound when the renderer reports its window with
// realize.
func NewLoop(opts Options) (*Loop, error) {
	if opts.Config == nil {
		return nil, errors.New("host loop requires a config")
	}
	if opts.Link == nil || opts.Inbound == nil {
		return nil, errors.New("host loop requires a renderer link")
	}
	if opts.Open == nil {
		opts.Open = overlay.Open
	}
	if opts.MainDisplay == nil {
		opts.MainDisplay = platform.MainDisplay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}

	l := &Loop{
		cfg:      opts.Config,
		kind:     opts.Kind,
		link:     opts.Link,
		inbound:  opts.Inbound,
		controls: opts.Controls,
		native:   opts.Native,
		runner:   opts.Runner,
		prober:   opts.Prober,
		open:     opts.Open,
		display:  opts.MainDisplay,
		reload:   opts.Reload,
		logger:   opts.Logger,
		visible:  true,
		sysinfo:  make(chan sysinfo.Info, 1),
		status:   newStatusBoard(opts.Started),
	}

	if l.kind.HelperOwned() {
		l.helper = bridge.NewHelperSurface(l.link, l.cfg.WindowSize())
		ov, err := l.open(l.kind, l.helper, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s overlay: %w", l.kind, err)
		}
		l.ov = ov
		l.surface = l.helper
		l.ctrl = drag.NewController(l.helper, l.cfg.InitialPlacement(), l.cfg.HysteresisPx, l.logger)
	}
	l.publish()
	return l, nil
}

// Status implements ipc.StatusProvider. It is safe from any goroutine.
func (l *Loop) Status() ipc.StatusData {
	return l.status.Load()
}

// Run blocks until ctx is cancelled, the renderer asks to quit, a QUIT
// control arrives or the renderer link closes.
func (l *Loop) Run(ctx context.Context) error {
	commandTick := time.NewTicker(pollInterval(l.cfg.CommandPollInterval(), config.DefaultCommandPollMs))
	defer commandTick.Stop()
	controlTick := time.NewTicker(pollInterval(l.cfg.ControlPollInterval(), config.DefaultControlPollMs))
	defer controlTick.Stop()
	defer l.stopFocusTimer()

	l.logger.Info("host loop started", "backend", string(l.kind))

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("host loop stopped")
			return nil

		case msg, ok := <-l.inbound:
			if !ok {
				l.connected = false
				l.publish()
				l.logger.Info("renderer link closed")
				return nil
			}
			if stop := l.dispatch(ctx, msg); stop {
				l.logger.Info("renderer requested quit")
				return nil
			}

		case <-commandTick.C:
			l.drainCommandResults()

		case <-controlTick.C:
			if stop := l.drainControls(); stop {
				l.logger.Info("quit requested over IPC")
				return nil
			}

		case <-l.focusRelease:
			l.releaseFocus()

		case info := <-l.sysinfo:
			l.send(bridge.NewSystemInfo(info))
		}
	}
}

// dispatch handles one renderer message and reports whether the loop should
// stop. Recovered panics are logged; the loop keeps running.
func (l *Loop) dispatch(ctx context.Context, msg bridge.Message) (stop bool) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("renderer message panic recovered", "action", string(msg.Action), "error", err)
			stop = false
		}
	}()
	defer l.publish()

	l.connected = true
	return l.handleMessage(ctx, msg)
}

func (l *Loop) handleMessage(ctx context.Context, msg bridge.Message) bool {
	switch msg.Action {
	case bridge.ActionStartDrag:
		l.startDrag()
	case bridge.ActionDrag:
		l.drag(msg.OffsetX, msg.OffsetY)
	case bridge.ActionEndDrag:
		l.endDrag()
	case bridge.ActionResize:
		l.resize(placement.Size{Width: msg.Width, Height: msg.Height})
	case bridge.ActionGetQuadrant:
		l.sendInitialState()
	case bridge.ActionSetInputRegion:
		l.setInputRegion(msg)
	case bridge.ActionRealize:
		l.realize(msg)
	case bridge.ActionSetClickThrough:
		l.setClickThrough(msg.Enabled)
	case bridge.ActionExecuteCommand:
		l.executeCommand(ctx, msg.ID, msg.Command)
	case bridge.ActionGetSystemInfo:
		l.probeSystem(ctx)
	case bridge.ActionHide:
		l.setVisible(false)
	case bridge.ActionQuit:
		return true
	default:
		l.logger.Debug("ignoring unknown renderer action", "action", string(msg.Action))
	}
	return false
}

func (l *Loop) startDrag() {
	if l.ctrl == nil {
		l.logger.Debug("startDrag before window is realized")
		return
	}
	if !l.ctrl.StartDrag() {
		l.logger.Debug("startDrag while a drag is active")
	}
}

func (l *Loop) drag(dx, dy float64) {
	if l.ctrl == nil {
		return
	}
	m, ok, err := l.ctrl.Drag(dx, dy)
	if !ok {
		l.logger.Debug("drag without startDrag")
		return
	}
	if err != nil {
		l.logger.Warn("drag update failed", "error", err)
	}
	if m.Positioned {
		l.send(bridge.NewCharacterMove(m.X, m.Y))
	}
}

func (l *Loop) endDrag() {
	if l.ctrl == nil {
		return
	}
	out, ok, err := l.ctrl.EndDrag()
	if !ok {
		l.logger.Debug("endDrag without startDrag")
		return
	}
	if err != nil {
		l.logger.Warn("quadrant update skipped", "error", err)
		return
	}
	if out.Changed {
		l.send(bridge.NewQuadrantChange(out.Quadrant))
	}
}

// resize applies a renderer size change. Growing past the collapsed width
// means the chat panel opened, so keyboard focus is forced briefly and then
// handed back to on-demand.
func (l *Loop) resize(size placement.Size) {
	if l.surface == nil {
		l.logger.Debug("resize before window is realized")
		return
	}
	if size.Width <= 0 || size.Height <= 0 {
		l.logger.Debug("ignoring invalid resize", "width", size.Width, "height", size.Height)
		return
	}
	if err := l.surface.Resize(size); err != nil {
		l.logger.Warn("resize failed", "error", err)
		return
	}
	if size.Width > l.cfg.Window.CollapsedWidth {
		if err := l.surface.SetKeyboardMode(platform.KeyboardExclusive); err != nil {
			l.logger.Warn("failed to grab keyboard focus", "error", err)
		} else {
			l.armFocusRelease()
		}
	}
	if err := l.ctrl.Reapply(); err != nil {
		l.logger.Warn("failed to re-anchor after resize", "error", err)
	}
}

func (l *Loop) armFocusRelease() {
	l.stopFocusTimer()
	l.focusTimer = time.NewTimer(l.cfg.FocusPulse())
	l.focusRelease = l.focusTimer.C
}

func (l *Loop) stopFocusTimer() {
	if l.focusTimer != nil {
		l.focusTimer.Stop()
	}
	l.focusTimer = nil
	l.focusRelease = nil
}

func (l *Loop) releaseFocus() {
	l.focusTimer = nil
	l.focusRelease = nil
	if l.surface == nil {
		return
	}
	if err := l.surface.SetKeyboardMode(platform.KeyboardOnDemand); err != nil {
		l.logger.Warn("failed to release keyboard focus", "error", err)
	}
}

func (l *Loop) sendInitialState() {
	if l.ctrl == nil {
		l.send(bridge.NewErrorEvent(errors.New("window is not realized")))
		return
	}
	x, y, geom, err := l.ctrl.Position()
	if err != nil {
		l.logger.Debug("getQuadrant without geometry", "error", err)
		l.send(bridge.NewErrorEvent(err))
		return
	}
	q, known := l.ctrl.Quadrant()
	if !known {
		q = placement.Initial(l.ctrl.Placement(), geom.Screen.Size(), geom.Window)
	}
	l.send(bridge.NewInitialState(x, y, q, geom.Screen.Size()))
}

func (l *Loop) setInputRegion(msg bridge.Message) {
	if l.ov == nil {
		l.logger.Debug("setInputRegion before window is realized")
		return
	}
	var err error
	switch msg.Mode {
	case bridge.RegionCharacter:
		err = l.ov.SetInputRegion(platform.Rect{X: msg.X, Y: msg.Y, Width: msg.Width, Height: msg.Height})
	case bridge.RegionFull:
		err = l.ov.ClearInputRegion()
	default:
		l.logger.Debug("ignoring unknown input region mode", "mode", msg.Mode)
		return
	}
	if err != nil {
		l.logger.Warn("input region update failed", "mode", msg.Mode, "error", err)
	}
	l.refreshInputState()
}

func (l *Loop) setClickThrough(enabled bool) {
	if l.ov == nil {
		l.logger.Debug("setClickThrough before window is realized")
		return
	}
	if err := l.ov.SetClickThrough(enabled); err != nil {
		l.logger.Warn("click-through update failed", "enabled", enabled, "error", err)
		return
	}
	l.clickThrough = enabled
	l.refreshInputState()
}

func (l *Loop) refreshInputState() {
	state, err := l.ov.InputState()
	if err != nil {
		l.logger.Debug("input state probe failed", "error", err)
		return
	}
	l.clickThrough = state.ClickThrough
	l.regionNoops = state.RegionNoops
}

func (l *Loop) setVisible(visible bool) {
	if l.surface == nil {
		l.visible = visible
		return
	}
	if err := l.surface.SetVisible(visible); err != nil {
		l.logger.Warn("visibility change failed", "visible", visible, "error", err)
		return
	}
	l.visible = visible
	l.send(bridge.NewVisibility(visible))
}

func (l *Loop) executeCommand(ctx context.Context, id, cmdline string) {
	if l.runner == nil {
		l.send(bridge.NewCommandComplete(id, command.NoExitCode, errors.New("command execution is disabled")))
		return
	}
	if _, err := l.runner.Start(ctx, id, cmdline); err != nil {
		l.send(bridge.NewCommandComplete(id, command.NoExitCode, err))
	}
}

// probeSystem runs off the loop; the result arrives on l.sysinfo.
func (l *Loop) probeSystem(ctx context.Context) {
	if l.prober == nil {
		return
	}
	go func() {
		info := l.prober.Probe(ctx)
		select {
		case l.sysinfo <- info:
		case <-ctx.Done():
		}
	}()
}

// drainCommandResults forwards at most maxResultsPerTick results so a chatty
// command cannot hold the loop away from drag messages.
func (l *Loop) drainCommandResults() {
	if l.runner == nil {
		return
	}
	results := l.runner.Results()
	for i := 0; i < maxResultsPerTick; i++ {
		select {
		case res := <-results:
			switch res.Kind {
			case command.KindStdout:
				l.send(bridge.NewCommandStdout(res.ID, res.Line))
			case command.KindStderr:
				l.send(bridge.NewCommandStderr(res.ID, res.Line))
			case command.KindComplete:
				l.send(bridge.NewCommandComplete(res.ID, res.ExitCode, res.Err))
			}
		default:
			return
		}
	}
}

func (l *Loop) drainControls() (stop bool) {
	if l.controls == nil {
		return false
	}
	defer l.publish()
	for {
		select {
		case c := <-l.controls:
			if l.applyControl(c) {
				return true
			}
		default:
			return false
		}
	}
}

func (l *Loop) applyControl(c ipc.Control) bool {
	switch c.Command {
	case ipc.CommandShow:
		l.setVisible(true)
	case ipc.CommandHide:
		l.setVisible(false)
	case ipc.CommandToggle:
		l.setVisible(!l.visible)
	case ipc.CommandSetClickThrough:
		l.setClickThrough(c.Enabled)
	case ipc.CommandReload:
		l.reloadConfig()
	case ipc.CommandQuit:
		return true
	default:
		l.logger.Debug("ignoring unknown control", "command", string(c.Command))
	}
	return false
}

// reloadConfig applies the settings that can change at runtime. Backend,
// helper and poll intervals keep their startup values.
func (l *Loop) reloadConfig() {
	if l.reload == nil {
		return
	}
	cfg, err := l.reload()
	if err != nil {
		l.logger.Error("config reload failed", "error", err)
		return
	}
	l.cfg.HysteresisPx = cfg.HysteresisPx
	l.cfg.FocusPulseMs = cfg.FocusPulseMs
	l.cfg.Window.CollapsedWidth = cfg.Window.CollapsedWidth
	if l.ctrl != nil {
		l.ctrl.SetBand(cfg.HysteresisPx)
	}
	l.logger.Info("config reloaded")
}

func (l *Loop) send(v any) {
	if err := l.link.Send(v); err != nil {
		l.logger.Warn("failed to send to renderer", "error", err)
	}
}

func pollInterval(d time.Duration, fallbackMs int) time.Duration {
	if d <= 0 {
		return time.Duration(fallbackMs) * time.Millisecond
	}
	return d
}
