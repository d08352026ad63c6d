//go:build !linux && !windows

package overlay

import (
	"fmt"

	"github.com/1broseidon/deskpet/internal/platform"
)

func openNative(kind Kind, _ platform.Backend, _ platform.WindowID) (Backend, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}
