//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and capabilities for wevgo.
// It determines how the native engine library is named on each operating
// system and which message-loop strategies the engine supports there.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// SupportsThreadedLoop indicates whether the engine may run its browser
// message loop on a dedicated secondary thread. macOS does not support
// a multi-threaded message loop; requesting it there crashes inside the
// engine, so the binding substitutes the external message pump instead.
const SupportsThreadedLoop = runtime.GOOS != "darwin"

// Is64Bit indicates whether the platform is 64-bit.
// wevgo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("wew", 1) -> "libwew.so.1"
//   - macOS:   FormatLibraryName("wew", 1) -> "libwew.1.dylib"
//   - Windows: FormatLibraryName("wew", 1) -> "wew-1.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
