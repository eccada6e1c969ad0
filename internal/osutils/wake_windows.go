//go:build windows

package osutils

import (
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputMouse     = 0
	mouseEventMove = 0x0001
)

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors the INPUT structure; MOUSEINPUT is the largest union member,
// so no trailing padding is needed.
type input struct {
	inputType uint32
	mi        mouseInput
}

// WakeUp nudges the mouse one pixel so a sleeping display accepts DDC
// commands again.
func WakeUp() {
	slog.Debug("waking display with synthetic mouse movement")

	var in input
	in.inputType = inputMouse
	in.mi.dx = 1
	in.mi.dy = 1
	in.mi.flags = mouseEventMove

	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
}
