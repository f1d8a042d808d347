//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/platform"
)

// LoopMode selects how the engine's message loop is driven.
type LoopMode int

const (
	// LoopBlocking runs the message loop on the caller's thread.
	// RunMessageLoop blocks until QuitMessageLoop is called. The caller
	// must be on the process main thread on macOS.
	LoopBlocking LoopMode = iota

	// LoopThreaded runs the message loop on a dedicated OS thread owned
	// by the binding. New spawns the thread and returns once the engine
	// is up. Not available on macOS; substituted with LoopPump there.
	LoopThreaded

	// LoopPump leaves scheduling to the application. The engine reports
	// when it wants work via the pump scheduler callback and the
	// application calls PollMessageLoop from its own loop.
	LoopPump
)

// String returns the loop mode name.
func (m LoopMode) String() string {
	switch m {
	case LoopBlocking:
		return "blocking"
	case LoopThreaded:
		return "threaded"
	case LoopPump:
		return "pump"
	default:
		return "unknown"
	}
}

// effectiveLoopMode applies platform restrictions. macOS cannot host the
// engine loop off the main thread, so LoopThreaded degrades to LoopPump.
func effectiveLoopMode(m LoopMode) LoopMode {
	if m == LoopThreaded && !platform.SupportsThreadedLoop {
		Logger().Warn("threaded message loop not supported on this platform, using pump mode",
			zap.String("goos", platform.GOOS()))
		return LoopPump
	}
	return m
}

// RunMessageLoop runs the engine message loop on the calling thread and
// blocks until QuitMessageLoop is called. Only valid in LoopBlocking
// mode. On macOS the caller must be the main thread.
func (r *Runtime) RunMessageLoop() {
	if r.loopMode() != LoopBlocking {
		return
	}
	nativeRunMessageLoop()
}

// QuitMessageLoop asks a blocking or threaded message loop to exit.
func (r *Runtime) QuitMessageLoop() {
	nativeQuitMessageLoop()
}

// PollMessageLoop performs one iteration of pending loop work. Only
// valid in LoopPump mode, and only from the thread that created the
// runtime.
func (r *Runtime) PollMessageLoop() {
	if r.loopMode() != LoopPump {
		return
	}
	nativePollMessageLoop()
}

// LoopMode returns the loop mode the runtime actually runs with, after
// platform substitution.
func (r *Runtime) LoopMode() LoopMode {
	return r.loopMode()
}

func (r *Runtime) loopMode() LoopMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}
