//go:build !ios && !android && (amd64 || arm64)

// Package wevgo provides high-level Go bindings to the wew embedded
// browser engine. It wraps the engine's multi-process model, message
// loop, and browser lifecycle behind Runtime and WebView types without
// CGO, using purego.
//
// Every process that uses the engine, including the helper subprocesses
// the engine spawns, must call ExecuteSubprocess near the top of main
// before creating a Runtime.
//
// For most use cases the high-level types are enough. The low-level
// wew package exposes the raw engine surface for advanced use.
package wevgo

import (
	"github.com/wevgo/wevgo/internal/bindings"
	"github.com/wevgo/wevgo/wew"
)

// Init loads the engine library and registers its bindings. This is
// called automatically by the high-level API, but can be called
// explicitly to check for errors. Safe to call multiple times.
func Init() error {
	return wew.Load()
}

// IsLoaded returns true if the engine library has been loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the engine library version, or 0 if not loaded.
func Version() uint32 {
	return bindings.Version()
}

// LibraryPath returns the path the engine library would be loaded from.
// Useful for startup diagnostics.
func LibraryPath() (string, error) {
	return bindings.FindLibrary()
}

// Re-export engine types for convenience
type (
	// State is a webview lifecycle state reported by the engine.
	State = wew.State

	// MouseButton identifies a mouse button.
	MouseButton = wew.MouseButton

	// TouchEvent is a single touch contact update.
	TouchEvent = wew.TouchEvent

	// TouchEventType is the phase of a touch contact.
	TouchEventType = wew.TouchEventType

	// PointerType is the device that produced a touch event.
	PointerType = wew.PointerType

	// LogSeverity controls the engine's own log output.
	LogSeverity = wew.LogSeverity

	// WindowHandle is a native window handle.
	WindowHandle = wew.WindowHandle
)

// Re-export engine constants
const (
	StateBeforeLoad   = wew.StateBeforeLoad
	StateLoaded       = wew.StateLoaded
	StateLoadError    = wew.StateLoadError
	StateRequestClose = wew.StateRequestClose
	StateClose        = wew.StateClose

	MouseButtonLeft   = wew.MouseButtonLeft
	MouseButtonMiddle = wew.MouseButtonMiddle
	MouseButtonRight  = wew.MouseButtonRight

	TouchReleased  = wew.TouchReleased
	TouchPressed   = wew.TouchPressed
	TouchMoved     = wew.TouchMoved
	TouchCancelled = wew.TouchCancelled

	PointerTypeTouch = wew.PointerTypeTouch
	PointerTypeMouse = wew.PointerTypeMouse
	PointerTypePen   = wew.PointerTypePen

	LogSeverityDefault = wew.LogSeverityDefault
	LogSeverityVerbose = wew.LogSeverityVerbose
	LogSeverityInfo    = wew.LogSeverityInfo
	LogSeverityWarning = wew.LogSeverityWarning
	LogSeverityError   = wew.LogSeverityError
	LogSeverityFatal   = wew.LogSeverityFatal
	LogSeverityDisable = wew.LogSeverityDisable
)

// Position is a point in view coordinates.
type Position struct {
	X int32
	Y int32
}

// Rect is a rectangle in view coordinates.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}
