//go:build !windows

package platform

// New returns the desktop for the running platform. Only Windows exposes a
// shell background layer, so every other platform gets the unsupported desktop.
func New() Desktop {
	return Unsupported()
}
