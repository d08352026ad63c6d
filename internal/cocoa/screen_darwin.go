//go:build darwin

package cocoa

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

// Point and Rect mirror NSPoint / NSRect (CGFloat is float64 on 64-bit).
type Point struct{ X, Y float64 }

type Size struct{ Width, Height float64 }

type Rect struct {
	Origin Point
	Size   Size
}

var (
	loadOnce sync.Once
	loadErr  error

	selScreens       = objc.RegisterName("screens")
	selCount         = objc.RegisterName("count")
	selObjectAtIndex = objc.RegisterName("objectAtIndex:")
	selFrame         = objc.RegisterName("frame")
	selVisibleFrame  = objc.RegisterName("visibleFrame")
)

// Load maps AppKit into the process.
func Load() error {
	loadOnce.Do(func() {
		_, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("failed to load AppKit: %w", err)
		}
	})
	return loadErr
}

// PrimaryScreenFrames returns the full and visible frames of the primary
// screen, the one holding the Cocoa origin at its bottom-left corner. The
// visible frame excludes the menu bar and the Dock.
func PrimaryScreenFrames() (frame, visible Rect, err error) {
	if err := Load(); err != nil {
		return Rect{}, Rect{}, err
	}
	screens := objc.ID(objc.GetClass("NSScreen")).Send(selScreens)
	if screens == 0 || objc.Send[uint](screens, selCount) == 0 {
		return Rect{}, Rect{}, fmt.Errorf("no screens attached")
	}
	screen := screens.Send(selObjectAtIndex, uint(0))
	frame = objc.Send[Rect](screen, selFrame)
	visible = objc.Send[Rect](screen, selVisibleFrame)
	return frame, visible, nil
}
