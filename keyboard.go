//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"github.com/wevgo/wevgo/internal/platform"
	"github.com/wevgo/wevgo/wew"
)

// EventFlags are modifier bits attached to input events.
type EventFlags uint32

const (
	FlagNone                    EventFlags = 0
	FlagCapsLockOn              EventFlags = 1 << 0
	FlagShiftDown               EventFlags = 1 << 1
	FlagControlDown             EventFlags = 1 << 2
	FlagAltDown                 EventFlags = 1 << 3
	FlagLeftMouseButton         EventFlags = 1 << 4
	FlagMiddleMouseButton       EventFlags = 1 << 5
	FlagRightMouseButton        EventFlags = 1 << 6
	FlagCommandDown             EventFlags = 1 << 7
	FlagNumLockOn               EventFlags = 1 << 8
	FlagIsKeyPad                EventFlags = 1 << 9
	FlagIsLeft                  EventFlags = 1 << 10
	FlagIsRight                 EventFlags = 1 << 11
	FlagAltGrDown               EventFlags = 1 << 12
	FlagIsRepeat                EventFlags = 1 << 13
	FlagPrecisionScrollingDelta EventFlags = 1 << 14
	FlagScrollByPage            EventFlags = 1 << 15
)

// KeyEventType is the kind of keyboard event.
type KeyEventType = wew.KeyEventType

const (
	KeyEventRawKeyDown = wew.KeyEventRawKeyDown
	KeyEventKeyDown    = wew.KeyEventKeyDown
	KeyEventKeyUp      = wew.KeyEventKeyUp
	KeyEventChar       = wew.KeyEventChar
)

// KeyEvent is a keyboard event in engine terms. WindowsKeyCode carries
// the virtual key code on Windows and is ignored elsewhere;
// NativeKeyCode carries the platform scan code.
type KeyEvent struct {
	Type                KeyEventType
	Modifiers           EventFlags
	WindowsKeyCode      uint32
	NativeKeyCode       uint32
	IsSystemKey         bool
	Character           uint16
	UnmodifiedCharacter uint16
	FocusOnEditableText bool
}

func (e KeyEvent) native() wew.KeyEvent {
	n := wew.KeyEvent{
		Type:                e.Type,
		Modifiers:           uint32(e.Modifiers),
		WindowsKeyCode:      int32(e.WindowsKeyCode),
		NativeKeyCode:       int32(e.NativeKeyCode),
		Character:           e.Character,
		UnmodifiedCharacter: e.UnmodifiedCharacter,
	}
	if e.IsSystemKey {
		n.IsSystemKey = 1
	}
	if e.FocusOnEditableText {
		n.FocusOnEditableText = 1
	}
	return n
}

// ScanCodeAdapter builds engine key events from platform scan codes. It
// reuses one event value, so the result of FromScanCode is only valid
// until the next call. Not safe for concurrent use.
type ScanCodeAdapter struct {
	event KeyEvent
}

// FromScanCode fills a key event for the given platform scan code. On
// Windows the scan code doubles as the virtual key code.
func (a *ScanCodeAdapter) FromScanCode(code uint32, ty KeyEventType, modifiers EventFlags) *KeyEvent {
	a.event.Type = ty
	a.event.Modifiers = modifiers
	a.event.NativeKeyCode = code
	if platform.GOOS() == "windows" {
		a.event.WindowsKeyCode = code
	}
	return &a.event
}
