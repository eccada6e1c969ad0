//go:build !darwin && !windows

package osutils

// WakeUp is a no-op on platforms without a wake mechanism.
func WakeUp() {}
