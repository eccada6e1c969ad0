//go:build darwin

package ddc

import (
	"bufio"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// darwinDisplay reaches the device through the m1ddc tool.
type darwinDisplay struct {
	toolPath string
	uuid     string
	info     DisplayInfo
}

// m1ddc addresses features by keyword rather than VCP code.
var darwinFeatureNames = map[FeatureCode]string{
	InputSelect: "input",
	0x10:        "luminance",
	0x12:        "contrast",
	0x62:        "volume",
}

func enumerate() ([]Display, error) {
	toolPath, err := findTool("m1ddc",
		"/usr/local/bin/m1ddc",
		"/opt/homebrew/bin/m1ddc",
	)
	if err != nil {
		return nil, err
	}

	output, err := exec.Command(toolPath, "display", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: m1ddc display list: %v", ErrCommandFailed, err)
	}
	return parseDisplayList(toolPath, string(output))
}

// Display list entries look like: [1] VG27AQL3A (776236CB-E781-416A-B419-7A65A34093C1)
var displayEntryPattern = regexp.MustCompile(`^\[(\d+)\]\s+(.+?)\s+\(([^)]+)\)$`)

func parseDisplayList(toolPath, output string) ([]Display, error) {
	var displays []Display
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		matches := displayEntryPattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		name := strings.TrimSpace(matches[2])
		// "(null)" entries are usually the internal display, which has no
		// DDC/CI channel.
		if name == "(null)" {
			continue
		}
		displays = append(displays, &darwinDisplay{
			toolPath: toolPath,
			uuid:     matches[3],
			info: DisplayInfo{
				ID:           name,
				Backend:      "macos",
				ModelName:    name,
				SerialNumber: matches[3],
			},
		})
	}
	return displays, scanner.Err()
}

func (d *darwinDisplay) Info() *DisplayInfo {
	return &d.info
}

func (d *darwinDisplay) UpdateCapabilities() error {
	return fmt.Errorf("%w: m1ddc does not report capabilities", ErrNoCapabilities)
}

func (d *darwinDisplay) GetVCPFeature(code FeatureCode) (uint16, error) {
	name, ok := darwinFeatureNames[code]
	if !ok {
		return 0, fmt.Errorf("%w: VCP 0x%02X", ErrFeatureUnsupported, uint8(code))
	}
	output, err := exec.Command(d.toolPath, "display", d.uuid, "get", name).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: m1ddc get %s: %v", ErrCommandFailed, name, err)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(string(output)), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected m1ddc output %q", ErrCommandFailed, string(output))
	}
	return uint16(value), nil
}

func (d *darwinDisplay) SetVCPFeature(code FeatureCode, value uint16) error {
	name, ok := darwinFeatureNames[code]
	if !ok {
		return fmt.Errorf("%w: VCP 0x%02X", ErrFeatureUnsupported, uint8(code))
	}
	cmd := exec.Command(d.toolPath, "display", d.uuid, "set", name, strconv.Itoa(int(value)))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: m1ddc set %s: %v", ErrCommandFailed, name, err)
	}
	return nil
}

func (d *darwinDisplay) Sleep() {
	time.Sleep(settleDelay)
}
