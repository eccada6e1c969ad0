package monitor

import (
	"errors"
	"strings"
	"testing"

	"minput/internal/ddc"
)

// fakeDisplay records collaborator calls for assertions.
type fakeDisplay struct {
	info    ddc.DisplayInfo
	current uint16

	getErr  error
	setErr  error
	capsErr error

	capsCalls  int
	setCalls   []uint16
	sleepCalls int
}

func (d *fakeDisplay) Info() *ddc.DisplayInfo { return &d.info }

func (d *fakeDisplay) UpdateCapabilities() error {
	d.capsCalls++
	return d.capsErr
}

func (d *fakeDisplay) GetVCPFeature(code ddc.FeatureCode) (uint16, error) {
	if d.getErr != nil {
		return 0, d.getErr
	}
	return d.current, nil
}

func (d *fakeDisplay) SetVCPFeature(code ddc.FeatureCode, value uint16) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.setCalls = append(d.setCalls, value)
	d.current = value
	return nil
}

func (d *fakeDisplay) Sleep() { d.sleepCalls++ }

func newFakeDisplay(id string) *fakeDisplay {
	return &fakeDisplay{info: ddc.DisplayInfo{ID: id, Backend: "i2c"}}
}

func TestUpdateCapabilitiesMemoized(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, false)

	if err := m.UpdateCapabilities(); err != nil {
		t.Fatalf("first UpdateCapabilities failed: %v", err)
	}
	if err := m.UpdateCapabilities(); err != nil {
		t.Fatalf("second UpdateCapabilities failed: %v", err)
	}
	if display.capsCalls != 1 {
		t.Errorf("collaborator called %d times, want 1", display.capsCalls)
	}
}

func TestUpdateCapabilitiesFailureNotRetried(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	display.capsErr = errors.New("nak from device")
	m := New(display, false)

	if err := m.UpdateCapabilities(); err == nil {
		t.Fatal("first UpdateCapabilities should surface the error")
	}
	// The fetched flag is set even on failure; no retry within the run.
	if err := m.UpdateCapabilities(); err != nil {
		t.Fatalf("second UpdateCapabilities should be a no-op, got %v", err)
	}
	if display.capsCalls != 1 {
		t.Errorf("collaborator called %d times, want 1", display.capsCalls)
	}
}

func TestSetCurrentInputSource(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, false)

	if err := m.SetCurrentInputSource(ddc.Hdmi1); err != nil {
		t.Fatalf("SetCurrentInputSource failed: %v", err)
	}
	if len(display.setCalls) != 1 || display.setCalls[0] != 0x11 {
		t.Errorf("writes = %v, want [0x11]", display.setCalls)
	}

	m.SleepIfNeeded()
	if display.sleepCalls != 1 {
		t.Errorf("sleep called %d times, want 1", display.sleepCalls)
	}
	// The settle flag clears after sleeping.
	m.SleepIfNeeded()
	if display.sleepCalls != 1 {
		t.Errorf("sleep called %d times after second SleepIfNeeded, want 1", display.sleepCalls)
	}
}

func TestSetCurrentInputSourceDryRun(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, true)

	if err := m.SetCurrentInputSource(ddc.Hdmi1); err != nil {
		t.Fatalf("dry-run SetCurrentInputSource failed: %v", err)
	}
	if len(display.setCalls) != 0 {
		t.Errorf("dry-run issued writes: %v", display.setCalls)
	}
	m.SleepIfNeeded()
	if display.sleepCalls != 0 {
		t.Errorf("dry-run should not settle, got %d sleeps", display.sleepCalls)
	}
}

func TestSleepOncePerMonitorForRepeatedWrites(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, false)

	for _, source := range []ddc.InputSource{ddc.Hdmi1, ddc.DisplayPort1, ddc.UsbC1} {
		if err := m.SetCurrentInputSource(source); err != nil {
			t.Fatalf("SetCurrentInputSource(%v) failed: %v", source, err)
		}
	}
	m.SleepIfNeeded()
	if display.sleepCalls != 1 {
		t.Errorf("sleep called %d times for three writes, want 1", display.sleepCalls)
	}
}

func TestInputSources(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, false)

	if sources := m.InputSources(); sources != nil {
		t.Errorf("InputSources before capability fetch = %v, want nil", sources)
	}

	display.info.Features = map[ddc.FeatureCode]ddc.Feature{
		ddc.InputSelect: {Code: ddc.InputSelect, Values: []uint16{0x0F, 0x11, 0x1B}},
	}
	sources := m.InputSources()
	want := []ddc.InputSource{ddc.DisplayPort1, ddc.Hdmi1, ddc.UsbC2}
	if len(sources) != len(want) {
		t.Fatalf("InputSources = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("InputSources[%d] = %v, want %v", i, sources[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	m := New(display, false)

	if !m.Contains("DELL") {
		t.Error("Contains(\"DELL\") = false")
	}
	if !m.Contains("") {
		t.Error("Contains(\"\") = false")
	}
	// Matching is case-sensitive.
	if m.Contains("dell") {
		t.Error("Contains(\"dell\") = true")
	}
	if !m.ContainsBackend("i2c") {
		t.Error("ContainsBackend(\"i2c\") = false")
	}
	if m.ContainsBackend("winapi") {
		t.Error("ContainsBackend(\"winapi\") = true")
	}
}

func TestLongString(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	display.current = 0x11
	display.info.ModelName = "U2723QE"
	display.info.Features = map[ddc.FeatureCode]ddc.Feature{
		ddc.InputSelect: {Code: ddc.InputSelect, Values: []uint16{0x0F, 0x11}},
	}
	m := New(display, false)

	got := m.LongString()
	for _, want := range []string{
		"DELL U2723QE",
		"Input Source: Hdmi1",
		"Input Sources: DP1, Hdmi1",
		"Model: U2723QE",
		"Backend: i2c",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("LongString missing %q:\n%s", want, got)
		}
	}
}

func TestLongStringReadFailure(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	display.getErr = errors.New("i2c timeout")
	m := New(display, false)

	got := m.LongString()
	// The read failure renders inline instead of propagating.
	if !strings.Contains(got, "i2c timeout") {
		t.Errorf("LongString should embed the read error:\n%s", got)
	}
	if !strings.Contains(got, "Backend: i2c") {
		t.Errorf("LongString should still include the backend line:\n%s", got)
	}
}

func TestFeatureCodeIndirection(t *testing.T) {
	display := newFakeDisplay("DELL U2723QE")
	display.info.Features = map[ddc.FeatureCode]ddc.Feature{
		ddc.InputSelect: {Code: 0x61}, // device remaps the feature
	}
	m := New(display, false)

	if got := m.featureCode(ddc.InputSelect); got != 0x61 {
		t.Errorf("featureCode = 0x%02X, want 0x61", uint8(got))
	}
	if got := m.featureCode(0x10); got != 0x10 {
		t.Errorf("featureCode without descriptor = 0x%02X, want 0x10", uint8(got))
	}
}
