// Package ddc is the boundary to the DDC/CI hardware transport. It exposes
// display enumeration, VCP feature access, and capability refresh through the
// Display interface; platform backends live behind build tags.
package ddc

import "time"

// FeatureCode identifies a VCP (Virtual Control Panel) feature.
type FeatureCode uint8

// InputSelect is the standard VCP feature code for input source selection.
const InputSelect FeatureCode = 0x60

// DDC/CI devices need a short delay after a write before they respond
// reliably again.
const settleDelay = 50 * time.Millisecond

// Feature describes one VCP feature from a display's capability report.
type Feature struct {
	// Code is the effective feature code reported by the device. It usually
	// equals the map key but some devices remap features.
	Code FeatureCode

	// Values is the discrete value set the device advertises for this
	// feature, in the order reported. Nil for continuous features or when
	// the device does not list values.
	Values []uint16
}

// DisplayInfo is the structured information for one display.
type DisplayInfo struct {
	// ID identifies the display for matching and output. Backends build it
	// from the most reliable identifier they have (model string, device
	// path, or UUID).
	ID string

	// Backend names the transport used to reach the display ("i2c",
	// "macos", "winapi").
	Backend string

	ModelName    string
	SerialNumber string

	// Features is populated by UpdateCapabilities. Nil until capabilities
	// have been fetched.
	Features map[FeatureCode]Feature
}

// Display is one physical display reachable over DDC/CI.
type Display interface {
	// Info returns the display's structured information. The returned
	// pointer stays valid for the display's lifetime; UpdateCapabilities
	// mutates it in place.
	Info() *DisplayInfo

	// UpdateCapabilities queries the device's self-reported capabilities
	// and fills Info().Features.
	UpdateCapabilities() error

	// GetVCPFeature reads the current value of a VCP feature.
	GetVCPFeature(code FeatureCode) (uint16, error)

	// SetVCPFeature writes a VCP feature value.
	SetVCPFeature(code FeatureCode, value uint16) error

	// Sleep blocks for the settle time required after DDC/CI writes.
	Sleep()
}

// Enumerate returns all displays the platform backend can reach. The order
// is whatever the backend reports and stays stable for one process run.
func Enumerate() ([]Display, error) {
	return enumerate()
}
