//go:build linux

package ddc

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// linuxDisplay reaches the device over I2C through the ddcutil tool.
type linuxDisplay struct {
	toolPath string
	number   string // ddcutil display number
	info     DisplayInfo
}

func enumerate() ([]Display, error) {
	toolPath, err := findTool("ddcutil",
		"/usr/bin/ddcutil",
		"/usr/local/bin/ddcutil",
	)
	if err != nil {
		return nil, err
	}

	output, err := exec.Command(toolPath, "detect", "--brief").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ddcutil detect: %v", ErrCommandFailed, err)
	}
	return parseDetectOutput(toolPath, string(output))
}

// parseDetectOutput parses `ddcutil detect --brief` output:
//
//	Display 1
//	   I2C bus:  /dev/i2c-4
//	   Monitor:  DEL:DELL U2723QE:ABC123
func parseDetectOutput(toolPath, output string) ([]Display, error) {
	var displays []Display
	var current *linuxDisplay

	commit := func() {
		if current == nil {
			return
		}
		if current.info.ID == "" {
			current.info.ID = "display-" + current.number
		}
		displays = append(displays, current)
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if number, ok := strings.CutPrefix(line, "Display "); ok {
			commit()
			current = &linuxDisplay{
				toolPath: toolPath,
				number:   strings.TrimSpace(number),
				info:     DisplayInfo{Backend: "i2c"},
			}
			continue
		}
		if current == nil {
			continue
		}
		if bus, ok := strings.CutPrefix(line, "I2C bus:"); ok {
			if current.info.ID == "" {
				current.info.ID = strings.TrimPrefix(strings.TrimSpace(bus), "/dev/")
			}
			continue
		}
		if monitor, ok := strings.CutPrefix(line, "Monitor:"); ok {
			// mfg:model:serial
			parts := strings.SplitN(strings.TrimSpace(monitor), ":", 3)
			if len(parts) >= 2 && parts[1] != "" {
				current.info.ModelName = parts[1]
				current.info.ID = parts[1]
			}
			if len(parts) == 3 {
				current.info.SerialNumber = parts[2]
			}
		}
	}
	commit()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return displays, nil
}

func (d *linuxDisplay) Info() *DisplayInfo {
	return &d.info
}

// UpdateCapabilities parses `ddcutil capabilities` output:
//
//	Model: U2723QE
//	VCP Features:
//	   Feature: 10 (Brightness)
//	   Feature: 60 (Input Source)
//	      Values:
//	         0f: DisplayPort-1
//	         11: HDMI-1
func (d *linuxDisplay) UpdateCapabilities() error {
	output, err := exec.Command(d.toolPath, "--display", d.number, "capabilities").Output()
	if err != nil {
		return fmt.Errorf("%w: ddcutil capabilities: %v", ErrCommandFailed, err)
	}

	features := make(map[FeatureCode]Feature)
	var currentCode FeatureCode
	hasCurrent := false

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if model, ok := strings.CutPrefix(line, "Model:"); ok {
			if d.info.ModelName == "" {
				d.info.ModelName = strings.TrimSpace(model)
			}
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Feature:"); ok {
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				hasCurrent = false
				continue
			}
			code, err := strconv.ParseUint(fields[0], 16, 8)
			if err != nil {
				hasCurrent = false
				continue
			}
			currentCode = FeatureCode(code)
			hasCurrent = true
			features[currentCode] = Feature{Code: currentCode}
			continue
		}
		if !hasCurrent {
			continue
		}
		// Value lines look like "0f: DisplayPort-1".
		if hexPart, _, ok := strings.Cut(line, ":"); ok {
			value, err := strconv.ParseUint(strings.TrimSpace(hexPart), 16, 8)
			if err != nil {
				continue
			}
			feature := features[currentCode]
			feature.Values = append(feature.Values, uint16(value))
			features[currentCode] = feature
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	d.info.Features = features
	return nil
}

func (d *linuxDisplay) GetVCPFeature(code FeatureCode) (uint16, error) {
	hexCode := fmt.Sprintf("%02X", uint8(code))
	output, err := exec.Command(d.toolPath, "--display", d.number, "getvcp", hexCode, "--brief").Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ddcutil getvcp %s: %v", ErrCommandFailed, hexCode, err)
	}

	// Brief output: "VCP 60 SNC x11" for discrete features,
	// "VCP 10 C 50 100" for continuous ones.
	fields := strings.Fields(strings.TrimSpace(string(output)))
	if len(fields) < 4 || fields[0] != "VCP" {
		return 0, fmt.Errorf("%w: unexpected getvcp output %q", ErrCommandFailed, string(output))
	}
	raw := fields[3]
	if hexValue, ok := strings.CutPrefix(raw, "x"); ok {
		value, err := strconv.ParseUint(hexValue, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: unexpected getvcp value %q", ErrCommandFailed, raw)
		}
		return uint16(value), nil
	}
	value, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected getvcp value %q", ErrCommandFailed, raw)
	}
	return uint16(value), nil
}

func (d *linuxDisplay) SetVCPFeature(code FeatureCode, value uint16) error {
	hexCode := fmt.Sprintf("%02X", uint8(code))
	cmd := exec.Command(d.toolPath, "--display", d.number, "setvcp", hexCode, strconv.Itoa(int(value)))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: ddcutil setvcp %s: %v", ErrCommandFailed, hexCode, err)
	}
	return nil
}

func (d *linuxDisplay) Sleep() {
	time.Sleep(settleDelay)
}
