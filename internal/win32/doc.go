// Package win32 wraps the handful of user32 and gdi32 calls the overlay
// needs on Windows. All functions live in windows-only files.
package win32
