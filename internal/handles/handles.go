// Package handles provides a thread-safe handle system for storing Go objects
// that need to be referenced from engine callbacks.
//
// The engine hands back an opaque context pointer with every callback it
// fires. We cannot store Go pointers in engine memory, so the handler object
// is registered here and the resulting uintptr id is what crosses the FFI
// boundary. The id stays valid until Unregister is called, which must only
// happen after the matching native close call has returned and no further
// callbacks can arrive.
package handles

import (
	"sync"
)

var (
	mu      sync.RWMutex
	handles = make(map[uintptr]any)
	nextID  uintptr = 1
)

// Register stores a Go object and returns a handle ID.
// The handle can be safely stored in engine memory (as uintptr or void*).
// The object will remain accessible until Unregister is called.
//
// Thread-safe.
func Register(v any) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	handles[id] = v
	return id
}

// Lookup retrieves a Go object by its handle ID.
// Returns nil if the handle is not registered.
//
// Thread-safe.
func Lookup(id uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return handles[id]
}

// Unregister removes a handle and allows the Go object to be garbage
// collected. Callbacks delivered after Unregister find no object and are
// dropped, which is what makes a native close call a barrier against
// further host callbacks.
//
// Thread-safe.
func Unregister(id uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(handles, id)
}

// Count returns the number of currently registered handles.
// Useful for debugging and testing memory leaks.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handles)
}
