package ddc

import (
	"fmt"
	"strconv"
	"strings"
)

// InputSource is a value of the input select VCP feature. The named
// constants cover the common sources; any other byte is a valid but
// unnamed value.
type InputSource uint8

const (
	DisplayPort1 InputSource = 0x0F
	DisplayPort2 InputSource = 0x10
	Hdmi1        InputSource = 0x11
	Hdmi2        InputSource = 0x12
	UsbC1        InputSource = 0x19
	UsbC2        InputSource = 0x1B
)

// canonicalNames maps named sources to their one output spelling.
var canonicalNames = map[InputSource]string{
	DisplayPort1: "DP1",
	DisplayPort2: "DP2",
	Hdmi1:        "Hdmi1",
	Hdmi2:        "Hdmi2",
	UsbC1:        "UsbC1",
	UsbC2:        "UsbC2",
}

// sourcesByName accepts several spellings per source. Keys are lower case;
// lookups fold case.
var sourcesByName = map[string]InputSource{
	"dp1":          DisplayPort1,
	"displayport1": DisplayPort1,
	"dp2":          DisplayPort2,
	"displayport2": DisplayPort2,
	"hdmi1":        Hdmi1,
	"hdmi2":        Hdmi2,
	"usbc1":        UsbC1,
	"usbc2":        UsbC2,
}

// ParseInputSource converts a user-supplied token to an InputSource. A token
// that parses as a non-negative integer within the byte range passes through
// unchanged; otherwise it is matched case-insensitively against the known
// source names. The returned error embeds the token verbatim.
func ParseInputSource(s string) (InputSource, error) {
	if value, err := strconv.ParseUint(s, 10, 8); err == nil {
		return InputSource(value), nil
	}
	if source, ok := sourcesByName[strings.ToLower(s)]; ok {
		return source, nil
	}
	return 0, fmt.Errorf("%q is not a valid input source", s)
}

// String returns the canonical name for known sources and the decimal
// representation for everything else. It never fails.
func (s InputSource) String() string {
	if name, ok := canonicalNames[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}
