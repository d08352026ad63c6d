package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskpet/internal/placement"
	"github.com/1broseidon/deskpet/internal/platform"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		line    string
		want    Message
		wantErr bool
	}{
		{line: `{"action":"startDrag"}`, want: Message{Action: ActionStartDrag}},
		{line: `{"action":"drag","offsetX":-12.5,"offsetY":40}`, want: Message{Action: ActionDrag, OffsetX: -12.5, OffsetY: 40}},
		{line: `{"action":"resize","width":740,"height":600}`, want: Message{Action: ActionResize, Width: 740, Height: 600}},
		{line: `{"action":"setInputRegion","mode":"character","x":1,"y":2,"width":3,"height":4}`,
			want: Message{Action: ActionSetInputRegion, Mode: RegionCharacter, X: 1, Y: 2, Width: 3, Height: 4}},
		{line: `{"action":"realize","windowId":12582919,"screenWidth":2560,"screenHeight":1440}`,
			want: Message{Action: ActionRealize, WindowID: 12582919, ScreenWidth: 2560, ScreenHeight: 1440}},
		{line: `{"action":"executeCommand","id":"a","command":"ls"}`, want: Message{Action: ActionExecuteCommand, ID: "a", Command: "ls"}},
		{line: `{"offsetX":1}`, wantErr: true},
		{line: `not json`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMessage([]byte(tt.line))
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMessage(%s) expected error", tt.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMessage(%s) returned error: %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMessage(%s) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestEventFieldNames(t *testing.T) {
	tests := []struct {
		event any
		want  string
	}{
		{NewQuadrantChange(placement.Quadrant{RightHalf: true}), `{"event":"quadrantChange","isRightHalf":true,"isBottomHalf":false}`},
		{NewCharacterMove(0, 12), `{"event":"characterMove","x":0,"y":12}`},
		{NewInitialState(1740, 680, placement.Quadrant{RightHalf: true, BottomHalf: true}, placement.Size{Width: 1920, Height: 1080}),
			`{"event":"initialState","x":1740,"y":680,"isRightHalf":true,"isBottomHalf":true,"screenWidth":1920,"screenHeight":1080}`},
		{NewCommandComplete("x", 2, errors.New("exit status 2")), `{"event":"commandComplete","id":"x","exitCode":2,"error":"exit status 2"}`},
		{NewCommandComplete("x", 0, nil), `{"event":"commandComplete","id":"x","exitCode":0}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.event)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("got %s, want %s", data, tt.want)
		}
	}
}

func TestLinkRunSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"action":"startDrag"}`,
		`garbage`,
		``,
		`{"action":"drag","offsetX":5,"offsetY":6}`,
		`{"action":"endDrag"}`,
	}, "\n")
	link := NewLink(strings.NewReader(input), &bytes.Buffer{}, nil)

	out := make(chan Message, 8)
	if err := link.Run(context.Background(), out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	close(out)

	var actions []Action
	for msg := range out {
		actions = append(actions, msg.Action)
	}
	want := []Action{ActionStartDrag, ActionDrag, ActionEndDrag}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}
}

func TestLinkRunStopsOnCancel(t *testing.T) {
	link := NewLink(strings.NewReader(`{"action":"hide"}`+"\n"), &bytes.Buffer{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- link.Run(ctx, make(chan Message)) }()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestLinkSendWritesLines(t *testing.T) {
	var buf bytes.Buffer
	link := NewLink(strings.NewReader(""), &buf, nil)
	if err := link.Send(NewVisibility(true)); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if err := link.Send(NewCharacterMove(1, 2)); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	want := `{"event":"visibility","visible":true}` + "\n" + `{"event":"characterMove","x":1,"y":2}` + "\n"
	if buf.String() != want {
		t.Fatalf("wrote %q, want %q", buf.String(), want)
	}
}

type recorder struct {
	lines []string
}

func (r *recorder) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.lines = append(r.lines, string(data))
	return nil
}

func TestHelperSurfaceAnchorIsOneDirective(t *testing.T) {
	rec := &recorder{}
	s := NewHelperSurface(rec, placement.Size{})

	p := placement.Placement{MarginHorizontal: 780, MarginVertical: 80}
	if err := s.Anchor(p); err != nil {
		t.Fatalf("Anchor returned error: %v", err)
	}
	want := `{"directive":"anchor","right":false,"bottom":false,"marginHorizontal":780,"marginVertical":80}`
	if len(rec.lines) != 1 || rec.lines[0] != want {
		t.Fatalf("lines = %v, want [%s]", rec.lines, want)
	}
}

func TestHelperSurfaceGeometry(t *testing.T) {
	s := NewHelperSurface(&recorder{}, placement.Size{})
	if _, err := s.Geometry(); !errors.Is(err, platform.ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry before the screen is known, got %v", err)
	}

	s.SetScreen(placement.Size{Width: 1920, Height: 1080})
	geom, err := s.Geometry()
	if err != nil {
		t.Fatalf("Geometry returned error: %v", err)
	}
	if geom.Window != DefaultWindowSize {
		t.Fatalf("window = %+v, want default %+v", geom.Window, DefaultWindowSize)
	}

	if err := s.Resize(placement.Size{Width: 160, Height: 380}); err != nil {
		t.Fatalf("Resize returned error: %v", err)
	}
	geom, _ = s.Geometry()
	if geom.Window != (placement.Size{Width: 160, Height: 380}) {
		t.Fatalf("window = %+v after resize", geom.Window)
	}
}

func TestHelperSurfaceInputDirectives(t *testing.T) {
	rec := &recorder{}
	s := NewHelperSurface(rec, placement.Size{})

	_ = s.SetInputRegion(platform.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	_ = s.SetEmptyInputRegion()
	_ = s.ClearInputRegion()
	_ = s.SetLayer("overlay")
	_ = s.SetKeyboardMode(platform.KeyboardExclusive)

	want := []string{
		`{"directive":"inputRegion","x":1,"y":2,"width":3,"height":4,"empty":false}`,
		`{"directive":"inputRegion","x":0,"y":0,"width":0,"height":0,"empty":true}`,
		`{"directive":"clearInputRegion"}`,
		`{"directive":"layer","layer":"overlay"}`,
		`{"directive":"keyboardMode","mode":"exclusive"}`,
	}
	if len(rec.lines) != len(want) {
		t.Fatalf("lines = %v", rec.lines)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, rec.lines[i], want[i])
		}
	}
}

type brokenSender struct{}

func (brokenSender) Send(any) error { return errors.New("broken pipe") }

func TestHelperSurfaceCocoaDirectives(t *testing.T) {
	rec := &recorder{}
	s := NewHelperSurface(rec, placement.Size{})

	if err := s.SetOverlay(true); err != nil {
		t.Fatalf("SetOverlay returned error: %v", err)
	}
	if err := s.SetIgnoresMouseEvents(true); err != nil {
		t.Fatalf("SetIgnoresMouseEvents returned error: %v", err)
	}
	if ignoring, _ := s.IgnoresMouseEvents(); !ignoring {
		t.Fatalf("expected click-through to be reported after it was sent")
	}

	want := []string{
		`{"directive":"overlay","enabled":true}`,
		`{"directive":"ignoresMouseEvents","ignore":true}`,
	}
	if len(rec.lines) != len(want) {
		t.Fatalf("lines = %v", rec.lines)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, rec.lines[i], want[i])
		}
	}
}

func TestHelperSurfaceUnsentClickThroughNotRecorded(t *testing.T) {
	s := NewHelperSurface(brokenSender{}, placement.Size{})
	if err := s.SetIgnoresMouseEvents(true); err == nil {
		t.Fatalf("expected send error")
	}
	if ignoring, _ := s.IgnoresMouseEvents(); ignoring {
		t.Fatalf("click-through recorded although the directive was not sent")
	}
}
