package host

import (
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskpet/internal/ipc"
	"github.com/1broseidon/deskpet/internal/overlay"
)

// statusBoard holds the latest snapshot published by the loop. Readers get
// a copy; they never see loop state directly.
type statusBoard struct {
	started time.Time
	current atomic.Pointer[ipc.StatusData]
}

func newStatusBoard(started time.Time) *statusBoard {
	b := &statusBoard{started: started}
	b.current.Store(&ipc.StatusData{DaemonRunning: true})
	return b
}

func (b *statusBoard) Load() ipc.StatusData {
	s := *b.current.Load()
	s.UptimeSeconds = int64(time.Since(b.started).Seconds())
	return s
}

func (b *statusBoard) Store(s ipc.StatusData) {
	b.current.Store(&s)
}

// publish snapshots loop state for IPC readers.
func (l *Loop) publish() {
	s := ipc.StatusData{
		DaemonRunning:     true,
		Backend:           string(l.kind),
		RendererConnected: l.connected,
		Visible:           l.visible,
		ClickThrough:      l.clickThrough,
		RegionNoops:       l.regionNoops,
		DragPhase:         "idle",
	}
	if l.ov != nil {
		s.Capabilities = capabilitiesData(l.ov.Capabilities())
	}
	if l.ctrl != nil {
		p := l.ctrl.Placement()
		s.DragPhase = l.ctrl.Phase().String()
		s.Placement = ipc.PlacementData{
			MarginHorizontal: p.MarginHorizontal,
			MarginVertical:   p.MarginVertical,
			AnchoredRight:    p.AnchoredRight,
			AnchoredBottom:   p.AnchoredBottom,
		}
		if q, known := l.ctrl.Quadrant(); known {
			s.Quadrant = ipc.QuadrantData{Known: true, IsRightHalf: q.RightHalf, IsBottomHalf: q.BottomHalf}
		}
	} else {
		p := l.cfg.InitialPlacement()
		s.Placement = ipc.PlacementData{
			MarginHorizontal: p.MarginHorizontal,
			MarginVertical:   p.MarginVertical,
			AnchoredRight:    p.AnchoredRight,
			AnchoredBottom:   p.AnchoredBottom,
		}
	}
	l.status.Store(s)
}

func capabilitiesData(c overlay.Capabilities) ipc.CapabilitiesData {
	return ipc.CapabilitiesData{
		PartialInputRegion:   c.PartialInputRegion,
		ClickThroughPerPixel: c.ClickThroughPerPixel,
		AllWorkspaces:        c.AllWorkspaces,
	}
}
