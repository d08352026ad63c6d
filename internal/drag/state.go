package drag

// Phase represents the current phase of a drag gesture
type Phase int

const (
	// PhaseIdle means no gesture is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means startDrag was received and endDrag was not
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Session holds the margins captured when the gesture started. Offsets are
// always applied to these, never to the current margins.
type Session struct {
	Phase            Phase
	OriginHorizontal int
	OriginVertical   int
}

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool {
	return s.Phase == PhaseDragging
}

// Reset returns the session to idle
func (s *Session) Reset() {
	s.Phase = PhaseIdle
	s.OriginHorizontal = 0
	s.OriginVertical = 0
}
