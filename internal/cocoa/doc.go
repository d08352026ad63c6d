// Package cocoa queries AppKit through the Objective-C runtime without cgo.
// The pet's NSWindow belongs to the renderer helper, so nothing here takes a
// window handle; only process-independent screen queries live in this
// package. All functions live in darwin-only files.
package cocoa
