package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Dir returns the runtime directory used for the control socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) the platform runtime directory from xdg (if present)
// 3) <tmp>/deskpet-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	if xdg.RuntimeDir != "" {
		if info, err := os.Stat(xdg.RuntimeDir); err == nil && info.IsDir() {
			return xdg.RuntimeDir, nil
		}
	}

	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("deskpet-runtime-%d", os.Getuid()))
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon control socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "deskpet.sock"), nil
}

// HelperLogPath returns the file the renderer helper's stderr is appended
// to, creating its directory.
func HelperLogPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("deskpet", "helper.log"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve helper log path: %w", err)
	}
	return path, nil
}
