package ddc

import "errors"

var (
	// ErrUnsupportedPlatform is returned when running on an OS without a
	// DDC/CI backend
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrToolNotFound is returned when the external DDC tool is not installed
	ErrToolNotFound = errors.New("required DDC tool not found")

	// ErrCommandFailed is returned when the DDC transport command fails
	ErrCommandFailed = errors.New("DDC command execution failed")

	// ErrNoCapabilities is returned when the backend cannot report
	// device capabilities
	ErrNoCapabilities = errors.New("capabilities not available")

	// ErrFeatureUnsupported is returned when the backend cannot address the
	// requested VCP feature
	ErrFeatureUnsupported = errors.New("VCP feature not supported by backend")
)
