// Package cstr converts Go strings and the process argument list into the
// NUL-terminated shapes the native engine's C entry points expect.
//
// The engine's argc/argv entry points read the pointer array only for the
// duration of the call, but the backing bytes must stay alive for exactly
// that long; callers are expected to hold the owning value and use
// runtime.KeepAlive after the native call returns.
package cstr

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"
)

// ErrEmbeddedNUL is returned when a string cannot be represented as a C
// string. The engine's argument model has no way to express it, so
// marshalling treats it as fatal rather than silently truncating.
var ErrEmbeddedNUL = errors.New("cstr: string contains an embedded NUL byte")

// Bytes returns s as an owned NUL-terminated byte slice and a pointer to its
// first byte. The caller must keep the slice alive across the native call.
func Bytes(s string) ([]byte, *byte) {
	b := append([]byte(s), 0)
	return b, &b[0]
}

// New is like Bytes but rejects strings with embedded NUL bytes.
func New(s string) ([]byte, *byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrEmbeddedNUL, s)
	}
	b, p := Bytes(s)
	return b, p, nil
}

// Opt returns a pointer for an optional C-string field: nil when s is empty,
// matching the engine's convention that absent settings are null pointers.
// The returned slice owns the bytes and must outlive the native call.
func Opt(s string) ([]byte, *byte, error) {
	if s == "" {
		return nil, nil, nil
	}
	return New(s)
}

// GoString copies a NUL-terminated C string into a Go string.
// Returns "" for a nil pointer.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	ptr := unsafe.Pointer(p)
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// Args owns a snapshot of an argument list in C argc/argv form. The backing
// strings and the pointer array stay alive as long as the Args value does.
type Args struct {
	owned [][]byte
	ptrs  []*byte
}

// NewArgs snapshots argv into owned NUL-terminated copies. Any argument with
// an embedded NUL byte fails the whole snapshot.
func NewArgs(argv []string) (*Args, error) {
	a := &Args{
		owned: make([][]byte, 0, len(argv)),
		ptrs:  make([]*byte, 0, len(argv)+1),
	}
	for _, arg := range argv {
		b, p, err := New(arg)
		if err != nil {
			return nil, fmt.Errorf("cstr: argument %q: %w", arg, ErrEmbeddedNUL)
		}
		a.owned = append(a.owned, b)
		a.ptrs = append(a.ptrs, p)
	}
	// Conventional NULL terminator; the engine indexes by count but some
	// platforms walk argv until NULL.
	a.ptrs = append(a.ptrs, nil)
	return a, nil
}

// Len returns the argument count (argc).
func (a *Args) Len() int {
	return len(a.owned)
}

// Pointer returns the argv pointer array as **char for the native call.
// Valid only while a is alive; pair the call with runtime.KeepAlive(a).
func (a *Args) Pointer() **byte {
	if len(a.ptrs) == 0 {
		return nil
	}
	return &a.ptrs[0]
}
