//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles locating and loading the native wew engine
// library (the C glue shim over the embedded browser engine) using purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/wevgo/wevgo/internal/platform"
)

// ErrNotLoaded is returned when engine functions are called before Load().
var ErrNotLoaded = errors.New("wevgo: engine library not loaded; call wevgo.Init() first")

// ErrLibraryNotFound is returned when the wew library cannot be found.
var ErrLibraryNotFound = errors.New("wevgo: engine library not found")

// wewVersions lists the library versions to probe, newest first.
var wewVersions = []int{1, 0}

var (
	libWew uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error

	wewVersion func() uint32
)

// IsLoaded returns true if the engine library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the wew engine library and registers the version binding.
// It is safe to call multiple times; subsequent calls are no-ops.
// Returns an error if the library cannot be found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error
	libWew, err = loadLibrary("wew", wewVersions)
	if err != nil {
		return fmt.Errorf("loading libwew: %w", err)
	}

	purego.RegisterLibFunc(&wewVersion, libWew, "wew_version")
	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}

		libName := platform.FormatLibraryName(name, 0)
		lib, err := tryOpen(filepath.Join(searchPath, libName))
		if err == nil {
			return lib, nil
		}
	}

	// Let the system loader find it.
	for _, ver := range versions {
		lib, err := tryOpen(platform.FormatLibraryName(name, ver))
		if err == nil {
			return lib, nil
		}
	}
	lib, err := tryOpen(platform.FormatLibraryName(name, 0))
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: the engine framework resolves symbols from the
// glue shim at runtime.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// LibrarySearchPaths returns platform-specific library search paths.
// WEVGO_LIBRARY_DIR always wins so applications can ship the engine next to
// their executable.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv("WEVGO_LIBRARY_DIR"); dir != "" {
		paths = append(paths, dir)
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// FindLibrary searches for the engine library and returns its full path.
// This is useful for diagnostics.
func FindLibrary() (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range wewVersions {
			fullPath := filepath.Join(searchPath, platform.FormatLibraryName("wew", ver))
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
		fullPath := filepath.Join(searchPath, platform.FormatLibraryName("wew", 0))
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: wew", ErrLibraryNotFound)
}

// Version returns the engine library version, or 0 if not loaded.
func Version() uint32 {
	if !loaded || wewVersion == nil {
		return 0
	}
	return wewVersion()
}

// LibWew returns the engine library handle.
func LibWew() uintptr {
	return libWew
}
