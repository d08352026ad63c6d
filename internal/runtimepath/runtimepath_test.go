package runtimepath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}
	info, err := os.Stat(got)
	if err != nil || !info.IsDir() {
		t.Fatalf("Dir() = %q is not a directory: %v", got, err)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if socket != filepath.Join(td, "deskpet.sock") {
		t.Fatalf("SocketPath() = %q", socket)
	}
}

func TestHelperLogPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	path, err := HelperLogPath()
	if err != nil {
		t.Fatalf("HelperLogPath() error: %v", err)
	}
	if !strings.HasPrefix(path, td) || filepath.Base(path) != "helper.log" {
		t.Fatalf("HelperLogPath() = %q", path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}
}
