// Package monitor wraps one DDC/CI display handle with the run-scoped state
// the command layer needs: memoized capability refresh, input source access,
// and the deferred settle flag.
package monitor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"minput/internal/ddc"
)

// Monitor is one physical display plus per-run bookkeeping. Instances are
// created during enumeration at process start and mutated in place by the
// single control goroutine; nothing here is safe for concurrent use.
type Monitor struct {
	display ddc.Display
	dryRun  bool

	// capabilitiesFetched is monotonic: once a refresh has been attempted,
	// it is never retried within the run, even when it failed.
	capabilitiesFetched bool

	// needsSleep is set after a successful hardware write and cleared by
	// SleepIfNeeded.
	needsSleep bool
}

// New wraps a display handle. With dryRun set, writes are logged but not
// issued.
func New(display ddc.Display, dryRun bool) *Monitor {
	return &Monitor{display: display, dryRun: dryRun}
}

// Enumerate wraps every display the hardware backend reports. The backend's
// order defines the numeric indices used on the command line.
func Enumerate(dryRun bool) ([]*Monitor, error) {
	displays, err := ddc.Enumerate()
	if err != nil {
		return nil, err
	}
	monitors := make([]*Monitor, 0, len(displays))
	for _, display := range displays {
		monitors = append(monitors, New(display, dryRun))
	}
	return monitors, nil
}

// String returns the display identifier.
func (m *Monitor) String() string {
	return m.display.Info().ID
}

// UpdateCapabilities fetches the device's self-reported capabilities once
// per run. Later calls are no-ops returning nil, including after a failed
// attempt. The error is returned to the caller; callers that treat
// capability data as optional log it and move on.
func (m *Monitor) UpdateCapabilities() error {
	if m.capabilitiesFetched {
		return nil
	}
	m.capabilitiesFetched = true
	slog.Debug("updating capabilities", "monitor", m.String())
	start := time.Now()
	err := m.display.UpdateCapabilities()
	slog.Debug("updated capabilities", "monitor", m.String(), "elapsed", time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: update capabilities: %w", m, err)
	}
	return nil
}

// featureCode resolves a feature code through the capability-derived
// descriptor when one is present. Capability data is optional; without it
// the standard code is used as-is.
func (m *Monitor) featureCode(code ddc.FeatureCode) ddc.FeatureCode {
	if feature, ok := m.display.Info().Features[code]; ok {
		return feature.Code
	}
	return code
}

// CurrentInputSource reads the live input select value from the device.
func (m *Monitor) CurrentInputSource() (ddc.InputSource, error) {
	value, err := m.display.GetVCPFeature(m.featureCode(ddc.InputSelect))
	if err != nil {
		return 0, fmt.Errorf("%s: read input source: %w", m, err)
	}
	return ddc.InputSource(value), nil
}

// SetCurrentInputSource writes the input select value. In dry-run mode the
// intended change is logged and the hardware is left untouched.
func (m *Monitor) SetCurrentInputSource(source ddc.InputSource) error {
	if m.dryRun {
		slog.Info("set input source (dry-run)", "monitor", m.String(), "input", source.String())
		return nil
	}
	slog.Info("set input source", "monitor", m.String(), "input", source.String())
	if err := m.display.SetVCPFeature(m.featureCode(ddc.InputSelect), uint16(source)); err != nil {
		return fmt.Errorf("%s: set input source: %w", m, err)
	}
	m.needsSleep = true
	return nil
}

// InputSources returns the device-advertised input select values, or nil
// when capabilities were never fetched or the device does not list discrete
// values for the feature.
func (m *Monitor) InputSources() []ddc.InputSource {
	feature, ok := m.display.Info().Features[ddc.InputSelect]
	if !ok || feature.Values == nil {
		return nil
	}
	sources := make([]ddc.InputSource, 0, len(feature.Values))
	for _, value := range feature.Values {
		sources = append(sources, ddc.InputSource(value))
	}
	return sources
}

// SleepIfNeeded pays the settle delay for a previous write, once. Repeated
// writes within one run accumulate into a single delay at the end.
func (m *Monitor) SleepIfNeeded() {
	if !m.needsSleep {
		return
	}
	m.needsSleep = false
	slog.Debug("settling", "monitor", m.String())
	start := time.Now()
	m.display.Sleep()
	slog.Debug("settled", "monitor", m.String(), "elapsed", time.Since(start))
}

// Contains reports whether the display identifier contains name.
func (m *Monitor) Contains(name string) bool {
	return strings.Contains(m.display.Info().ID, name)
}

// ContainsBackend reports whether the backend label contains backend.
func (m *Monitor) ContainsBackend(backend string) bool {
	return strings.Contains(m.display.Info().Backend, backend)
}

// LongString returns a multi-line description block. Failed sub-reads
// degrade to inline error text; this never fails.
func (m *Monitor) LongString() string {
	info := m.display.Info()
	lines := []string{m.String()}
	if source, err := m.CurrentInputSource(); err != nil {
		lines = append(lines, "Input Source: "+err.Error())
	} else {
		lines = append(lines, "Input Source: "+source.String())
	}
	if sources := m.InputSources(); sources != nil {
		names := make([]string, 0, len(sources))
		for _, source := range sources {
			names = append(names, source.String())
		}
		lines = append(lines, "Input Sources: "+strings.Join(names, ", "))
	}
	if info.ModelName != "" {
		lines = append(lines, "Model: "+info.ModelName)
	}
	lines = append(lines, "Backend: "+info.Backend)
	return strings.Join(lines, "\n    ")
}
