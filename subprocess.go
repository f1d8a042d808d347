//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/wevgo/wevgo/internal/cstr"
)

// osExit is swapped out in tests.
var osExit = os.Exit

// IsSubprocess reports whether the current process was spawned by the
// engine as a helper process, detected by the --type flag the engine
// puts on the helper command line.
func IsSubprocess() bool {
	return isSubprocessArgs(os.Args)
}

func isSubprocessArgs(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, arg := range args[1:] {
		if arg == "--type" || strings.HasPrefix(arg, "--type=") {
			return true
		}
	}
	return false
}

// ExecuteSubprocess hands the process to the engine's subprocess entry
// point. Every process that uses the engine without a dedicated helper
// executable must call it near the top of main, before flag parsing and
// before New.
//
// In the browser process it returns nil immediately. In a helper
// subprocess it runs the helper to completion and exits the process
// with the engine's exit code; it does not return.
//
// Panics if a Runtime already exists: the engine forbids re-entering
// subprocess startup once initialized.
func ExecuteSubprocess() error {
	if runtimeLive.Load() {
		panic("wevgo: ExecuteSubprocess must be called before New")
	}
	if err := nativeLoad(); err != nil {
		return err
	}

	args, err := cstr.NewArgs(os.Args)
	if err != nil {
		return fmt.Errorf("command line: %w", err)
	}
	code := nativeExecuteSubprocess(int32(args.Len()), args.Pointer())
	runtime.KeepAlive(args)

	// Negative means this is the browser process; carry on.
	if code >= 0 {
		osExit(int(code))
	}
	return nil
}
