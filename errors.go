//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"errors"

	"github.com/wevgo/wevgo/internal/bindings"
)

// Common errors
var (
	// ErrNotLoaded indicates the engine library is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates the engine library could not be located.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrRuntimeAlreadyExists indicates a Runtime already lives in this
	// process. The engine supports exactly one per process.
	ErrRuntimeAlreadyExists = errors.New("wevgo: a runtime already exists in this process")

	// ErrFailedToCreateRuntime indicates engine initialization failed.
	ErrFailedToCreateRuntime = errors.New("wevgo: failed to create runtime")

	// ErrFailedToCreateWebView indicates the initial page load failed.
	ErrFailedToCreateWebView = errors.New("wevgo: failed to create webview")

	// ErrRuntimeClosed indicates the runtime has been closed.
	ErrRuntimeClosed = errors.New("wevgo: runtime is closed")

	// ErrWebViewClosed indicates the webview has been closed.
	ErrWebViewClosed = errors.New("wevgo: webview is closed")

	// ErrBridgeTimeout indicates a bridge call did not answer in time.
	ErrBridgeTimeout = errors.New("wevgo: bridge call timed out")

	// ErrBridgeSerde indicates a bridge payload could not be encoded or decoded.
	ErrBridgeSerde = errors.New("wevgo: bridge payload is not valid JSON")

	// ErrBridgeCall indicates the page rejected a bridge call.
	ErrBridgeCall = errors.New("wevgo: bridge call rejected")
)
