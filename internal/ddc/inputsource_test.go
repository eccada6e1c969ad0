package ddc

import (
	"strconv"
	"strings"
	"testing"
)

func TestParseInputSourceNames(t *testing.T) {
	tests := []struct {
		input string
		want  InputSource
	}{
		{"DP1", DisplayPort1},
		{"DisplayPort1", DisplayPort1},
		{"dp2", DisplayPort2},
		{"Hdmi1", Hdmi1},
		{"hdmi1", Hdmi1},
		{"HDMI1", Hdmi1},
		{"Hdmi2", Hdmi2},
		{"UsbC1", UsbC1},
		{"usbc2", UsbC2},
	}
	for _, test := range tests {
		got, err := ParseInputSource(test.input)
		if err != nil {
			t.Errorf("ParseInputSource(%q) failed: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseInputSource(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestParseInputSourceNumericPassthrough(t *testing.T) {
	got, err := ParseInputSource("27")
	if err != nil {
		t.Fatalf("ParseInputSource(\"27\") failed: %v", err)
	}
	if got != 27 {
		t.Errorf("ParseInputSource(\"27\") = %d, want 27", got)
	}
}

func TestParseInputSourceInvalid(t *testing.T) {
	_, err := ParseInputSource("xyz")
	if err == nil {
		t.Fatal("ParseInputSource(\"xyz\") should fail")
	}
	if !strings.Contains(err.Error(), "xyz") {
		t.Errorf("error %q should contain the original input", err)
	}
}

func TestInputSourceString(t *testing.T) {
	tests := []struct {
		source InputSource
		want   string
	}{
		{DisplayPort1, "DP1"},
		{DisplayPort2, "DP2"},
		{Hdmi1, "Hdmi1"},
		{Hdmi2, "Hdmi2"},
		{UsbC1, "UsbC1"},
		{UsbC2, "UsbC2"},
		{InputSource(255), "255"},
		{InputSource(0), "0"},
	}
	for _, test := range tests {
		if got := test.source.String(); got != test.want {
			t.Errorf("InputSource(%d).String() = %q, want %q", uint8(test.source), got, test.want)
		}
	}
}

// Every byte value must round-trip: named constants through their canonical
// name, everything else through its decimal representation.
func TestInputSourceRoundTrip(t *testing.T) {
	for value := 0; value < 256; value++ {
		source := InputSource(value)
		parsed, err := ParseInputSource(source.String())
		if err != nil {
			t.Fatalf("ParseInputSource(%q) failed: %v", source.String(), err)
		}
		if parsed != source {
			t.Errorf("round trip of %d through %q gave %d", value, source.String(), parsed)
		}
		// Decimal strings of unnamed values parse back unchanged.
		if _, named := canonicalNames[source]; !named {
			if source.String() != strconv.Itoa(value) {
				t.Errorf("InputSource(%d).String() = %q, want decimal", value, source.String())
			}
		}
	}
}
