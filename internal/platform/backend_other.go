//go:build !linux && !windows && !darwin

package platform

import (
	"fmt"
	"runtime"
)

// NewNativeBackend opens the window-system backend for this OS.
func NewNativeBackend() (Backend, error) {
	return nil, fmt.Errorf("no native window backend for %s", runtime.GOOS)
}
