//go:build !ios && !android && (amd64 || arm64)

package bindings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLibrarySearchPathsNotEmpty(t *testing.T) {
	paths := LibrarySearchPaths()
	if len(paths) == 0 {
		t.Fatal("expected at least one library search path")
	}
}

func TestLibrarySearchPathsHonorOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WEVGO_LIBRARY_DIR", dir)

	paths := LibrarySearchPaths()
	if len(paths) == 0 || paths[0] != dir {
		t.Fatalf("expected WEVGO_LIBRARY_DIR %q first, got %v", dir, paths)
	}
}

func TestFindLibraryReportsNotFound(t *testing.T) {
	// Point the override at an empty directory so a system-installed
	// engine does not interfere with the negative case.
	t.Setenv("WEVGO_LIBRARY_DIR", t.TempDir())

	if _, err := FindLibrary(); err == nil {
		if !engineInstalled() {
			t.Fatal("expected error when library is absent")
		}
	}
}

func TestVersionZeroWhenNotLoaded(t *testing.T) {
	if loaded {
		t.Skip("engine library already loaded")
	}
	if v := Version(); v != 0 {
		t.Fatalf("Version() = %d, want 0 before Load", v)
	}
}

func engineInstalled() bool {
	for _, searchPath := range LibrarySearchPaths() {
		matches, _ := filepath.Glob(filepath.Join(searchPath, "*wew*"))
		for _, m := range matches {
			if _, err := os.Stat(m); err == nil {
				return true
			}
		}
	}
	return false
}
