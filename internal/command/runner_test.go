package command

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func collect(t *testing.T, r *Runner, id string) (stdout, stderr []string, done Result) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case res := <-r.Results():
			if res.ID != id {
				t.Fatalf("unexpected result for id %q", res.ID)
			}
			switch res.Kind {
			case KindStdout:
				stdout = append(stdout, res.Line)
			case KindStderr:
				stderr = append(stderr, res.Line)
			case KindComplete:
				return stdout, stderr, res
			}
		case <-deadline:
			t.Fatalf("timed out waiting for command %s", id)
		}
	}
}

func skipWithoutPosixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestStreamsOutputAndExitCode(t *testing.T) {
	skipWithoutPosixShell(t)
	r := NewRunner("/bin/sh", 0, nil)

	id, err := r.Start(context.Background(), "cmd-1", "echo one; echo two; echo oops 1>&2; exit 3")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id != "cmd-1" {
		t.Fatalf("id = %q, want cmd-1", id)
	}

	stdout, stderr, done := collect(t, r, id)
	if strings.Join(stdout, ",") != "one,two" {
		t.Fatalf("stdout = %v", stdout)
	}
	if len(stderr) != 1 || stderr[0] != "oops" {
		t.Fatalf("stderr = %v", stderr)
	}
	if done.ExitCode != 3 || done.Err != nil {
		t.Fatalf("complete = %+v, want exit 3 without error", done)
	}
	if r.Running() != 0 {
		t.Fatalf("running = %d after completion", r.Running())
	}
}

func TestGeneratesID(t *testing.T) {
	skipWithoutPosixShell(t)
	r := NewRunner("/bin/sh", 0, nil)
	id, err := r.Start(context.Background(), "", "true")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected a uuid, got %q", id)
	}
	_, _, done := collect(t, r, id)
	if done.ExitCode != 0 {
		t.Fatalf("exit = %d", done.ExitCode)
	}
}

func TestEmptyCommandRejected(t *testing.T) {
	r := NewRunner("/bin/sh", 0, nil)
	if _, err := r.Start(context.Background(), "x", "   "); err != ErrEmptyCommand {
		t.Fatalf("err = %v, want ErrEmptyCommand", err)
	}
}

func TestMissingShellReportsCompletion(t *testing.T) {
	r := NewRunner("/nonexistent/shell", 0, nil)
	id, err := r.Start(context.Background(), "x", "echo hi")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, _, done := collect(t, r, id)
	if done.ExitCode != NoExitCode || done.Err == nil {
		t.Fatalf("complete = %+v, want start failure", done)
	}
}

func TestTimeoutKillsCommand(t *testing.T) {
	skipWithoutPosixShell(t)
	r := NewRunner("/bin/sh", 100*time.Millisecond, nil)
	id, err := r.Start(context.Background(), "slow", "sleep 5")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, _, done := collect(t, r, id)
	if done.Err == nil || !strings.Contains(done.Err.Error(), "timed out") {
		t.Fatalf("complete = %+v, want timeout", done)
	}
}

func TestCancel(t *testing.T) {
	skipWithoutPosixShell(t)
	r := NewRunner("/bin/sh", 0, nil)
	id, err := r.Start(context.Background(), "c", "sleep 5")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.Cancel(id) {
		t.Fatalf("Cancel reported unknown id")
	}
	_, _, done := collect(t, r, id)
	if done.Err == nil || !strings.Contains(done.Err.Error(), "cancelled") {
		t.Fatalf("complete = %+v, want cancellation", done)
	}
	if r.Cancel(id) {
		t.Fatalf("Cancel after completion should report false")
	}
}

func TestShellArgs(t *testing.T) {
	tests := []struct {
		shell    string
		wantName string
		wantFlag string
	}{
		{"", "/bin/sh", "-c"},
		{"/bin/bash", "/bin/bash", "-c"},
		{"cmd.exe", "cmd.exe", "/C"},
		{"CMD", "CMD", "/C"},
	}
	for _, tt := range tests {
		name, args := shellArgs(tt.shell, "ls")
		if name != tt.wantName || args[0] != tt.wantFlag || args[1] != "ls" {
			t.Fatalf("shellArgs(%q) = %s %v", tt.shell, name, args)
		}
	}
}
