//go:build windows

package ddc

import (
	"fmt"
	"strings"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dxva2  = windows.NewLazySystemDLL("dxva2.dll")

	procEnumDisplayMonitors         = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW             = user32.NewProc("GetMonitorInfoW")
	procGetNumberOfPhysicalMonitors = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procGetPhysicalMonitors         = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procGetVCPFeatureAndReply       = dxva2.NewProc("GetVCPFeatureAndVCPFeatureReply")
	procSetVCPFeature               = dxva2.NewProc("SetVCPFeature")
	procGetCapabilitiesStringLength = dxva2.NewProc("GetCapabilitiesStringLength")
	procCapabilitiesRequestAndReply = dxva2.NewProc("CapabilitiesRequestAndCapabilitiesReply")
)

// physicalMonitor mirrors the PHYSICAL_MONITOR structure.
type physicalMonitor struct {
	handle      windows.Handle
	description [128]uint16
}

// monitorInfoEx mirrors MONITORINFOEXW.
type monitorInfoEx struct {
	size    uint32
	monitor [4]int32
	work    [4]int32
	flags   uint32
	device  [32]uint16
}

// windowsDisplay reaches the device through the dxva2 physical monitor API.
type windowsDisplay struct {
	handle windows.Handle
	info   DisplayInfo
}

func enumerate() ([]Display, error) {
	var handles []uintptr
	callback := syscall.NewCallback(func(hMonitor, hdc, rect, lparam uintptr) uintptr {
		handles = append(handles, hMonitor)
		return 1 // continue enumeration
	})
	ret, _, err := procEnumDisplayMonitors.Call(0, 0, callback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("%w: EnumDisplayMonitors: %v", ErrCommandFailed, err)
	}

	var displays []Display
	for _, hMonitor := range handles {
		deviceName := monitorDeviceName(hMonitor)

		var count uint32
		ret, _, _ := procGetNumberOfPhysicalMonitors.Call(hMonitor, uintptr(unsafe.Pointer(&count)))
		if ret == 0 || count == 0 {
			continue
		}
		physical := make([]physicalMonitor, count)
		ret, _, _ = procGetPhysicalMonitors.Call(hMonitor, uintptr(count), uintptr(unsafe.Pointer(&physical[0])))
		if ret == 0 {
			continue
		}

		for i := range physical {
			description := windows.UTF16ToString(physical[i].description[:])
			id := description
			if deviceName != "" {
				if id == "" {
					id = deviceName
				} else {
					id = description + " " + deviceName
				}
			}
			displays = append(displays, &windowsDisplay{
				handle: physical[i].handle,
				info: DisplayInfo{
					ID:        id,
					Backend:   "winapi",
					ModelName: description,
				},
			})
		}
	}
	return displays, nil
}

func monitorDeviceName(hMonitor uintptr) string {
	var info monitorInfoEx
	info.size = uint32(unsafe.Sizeof(info))
	ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return ""
	}
	return windows.UTF16ToString(info.device[:])
}

func (d *windowsDisplay) Info() *DisplayInfo {
	return &d.info
}

func (d *windowsDisplay) UpdateCapabilities() error {
	var length uint32
	ret, _, err := procGetCapabilitiesStringLength.Call(uintptr(d.handle), uintptr(unsafe.Pointer(&length)))
	if ret == 0 || length == 0 {
		return fmt.Errorf("%w: GetCapabilitiesStringLength: %v", ErrNoCapabilities, err)
	}
	buffer := make([]byte, length)
	ret, _, err = procCapabilitiesRequestAndReply.Call(
		uintptr(d.handle),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(length),
	)
	if ret == 0 {
		return fmt.Errorf("%w: CapabilitiesRequestAndCapabilitiesReply: %v", ErrNoCapabilities, err)
	}

	// The reply is an ASCII MCCS capability string, NUL terminated.
	raw := string(buffer)
	if idx := strings.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	features, model := parseCapabilities(raw)
	d.info.Features = features
	if model != "" && d.info.ModelName == "" {
		d.info.ModelName = model
	}
	return nil
}

func (d *windowsDisplay) GetVCPFeature(code FeatureCode) (uint16, error) {
	var current, maximum uint32
	ret, _, err := procGetVCPFeatureAndReply.Call(
		uintptr(d.handle),
		uintptr(code),
		0,
		uintptr(unsafe.Pointer(&current)),
		uintptr(unsafe.Pointer(&maximum)),
	)
	if ret == 0 {
		return 0, fmt.Errorf("%w: GetVCPFeature 0x%02X: %v", ErrCommandFailed, uint8(code), err)
	}
	return uint16(current), nil
}

func (d *windowsDisplay) SetVCPFeature(code FeatureCode, value uint16) error {
	ret, _, err := procSetVCPFeature.Call(uintptr(d.handle), uintptr(code), uintptr(value))
	if ret == 0 {
		return fmt.Errorf("%w: SetVCPFeature 0x%02X: %v", ErrCommandFailed, uint8(code), err)
	}
	return nil
}

func (d *windowsDisplay) Sleep() {
	time.Sleep(settleDelay)
}
