//go:build !darwin

package platform

// MainDisplay is only needed where the helper may not report its screen.
func MainDisplay() (Display, error) {
	return Display{}, ErrNoGeometry
}
