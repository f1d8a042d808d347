//go:build !ios && !android && (amd64 || arm64)

// Package wew provides low-level bindings to the wew engine library, the C
// glue shim over the embedded browser framework. Higher-level code should
// use the root wevgo package; this package maps the C surface one to one
// and performs no lifecycle bookkeeping of its own.
package wew

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/wevgo/wevgo/internal/bindings"
)

// Function bindings - registered when the engine library is loaded.
var (
	wewExecuteSubprocess func(argc int32, argv **byte) int32
	wewGetExitCode       func() int32

	wewRunMessageLoop  func()
	wewQuitMessageLoop func()
	wewPollMessageLoop func()
	wewPostTask        func(fn uintptr, ctx uintptr) bool

	wewCreateRuntime  func(settings *RuntimeSettings, handler *RuntimeHandler) unsafe.Pointer
	wewExecuteRuntime func(rt unsafe.Pointer, argc int32, argv **byte) int32
	wewCloseRuntime   func(rt unsafe.Pointer)

	wewCreateWebView func(rt unsafe.Pointer, url string, settings *WebViewSettings, handler *WebViewHandler) unsafe.Pointer
	wewCloseWebView  func(wv unsafe.Pointer)

	wewMouseClick func(wv unsafe.Pointer, x, y int32, modifiers uint32, button int32, pressed bool)
	wewMouseMove  func(wv unsafe.Pointer, x, y int32, modifiers uint32)
	wewMouseWheel func(wv unsafe.Pointer, x, y int32, deltaX, deltaY int32)
	wewKeyboard   func(wv unsafe.Pointer, event *KeyEvent)
	wewTouch      func(wv unsafe.Pointer, event *TouchEvent)

	wewIMECommit         func(wv unsafe.Pointer, text string)
	wewIMESetComposition func(wv unsafe.Pointer, text string, cursorX, cursorY int32)

	wewSendMessage      func(wv unsafe.Pointer, payload string)
	wewSetDevToolsState func(wv unsafe.Pointer, open bool)
	wewResize           func(wv unsafe.Pointer, width, height int32)
	wewGetWindowHandle  func(wv unsafe.Pointer) unsafe.Pointer

	wewSetRequestHandler func(wv unsafe.Pointer, handler *ResourceRequestHandler)

	bindingsRegistered bool
)

func init() {
	if bindings.IsLoaded() {
		registerBindings()
	}
}

// Load loads the engine library and registers all bindings.
// Safe to call multiple times.
func Load() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	registerBindings()
	return nil
}

// IsLoaded reports whether the engine bindings are usable.
func IsLoaded() bool {
	return bindingsRegistered
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	lib := bindings.LibWew()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&wewExecuteSubprocess, lib, "wew_execute_subprocess")
	purego.RegisterLibFunc(&wewGetExitCode, lib, "wew_get_exit_code")

	purego.RegisterLibFunc(&wewRunMessageLoop, lib, "wew_run_message_loop")
	purego.RegisterLibFunc(&wewQuitMessageLoop, lib, "wew_quit_message_loop")
	purego.RegisterLibFunc(&wewPollMessageLoop, lib, "wew_poll_message_loop")
	purego.RegisterLibFunc(&wewPostTask, lib, "wew_post_task_with_main_thread")

	purego.RegisterLibFunc(&wewCreateRuntime, lib, "wew_create_runtime")
	purego.RegisterLibFunc(&wewExecuteRuntime, lib, "wew_execute_runtime")
	purego.RegisterLibFunc(&wewCloseRuntime, lib, "wew_close_runtime")

	purego.RegisterLibFunc(&wewCreateWebView, lib, "wew_create_webview")
	purego.RegisterLibFunc(&wewCloseWebView, lib, "wew_close_webview")

	purego.RegisterLibFunc(&wewMouseClick, lib, "wew_webview_mouse_click")
	purego.RegisterLibFunc(&wewMouseMove, lib, "wew_webview_mouse_move")
	purego.RegisterLibFunc(&wewMouseWheel, lib, "wew_webview_mouse_wheel")
	purego.RegisterLibFunc(&wewKeyboard, lib, "wew_webview_keyboard")
	purego.RegisterLibFunc(&wewTouch, lib, "wew_webview_touch")

	purego.RegisterLibFunc(&wewIMECommit, lib, "wew_webview_ime_commit")
	purego.RegisterLibFunc(&wewIMESetComposition, lib, "wew_webview_ime_set_composition")

	purego.RegisterLibFunc(&wewSendMessage, lib, "wew_webview_send_message")
	purego.RegisterLibFunc(&wewSetDevToolsState, lib, "wew_webview_set_devtools_state")
	purego.RegisterLibFunc(&wewResize, lib, "wew_webview_resize")
	purego.RegisterLibFunc(&wewGetWindowHandle, lib, "wew_webview_get_window_handle")

	purego.RegisterLibFunc(&wewSetRequestHandler, lib, "wew_webview_set_request_handler")

	bindingsRegistered = true
}

// ExecuteSubprocess runs the engine subprocess entry point. For subprocess
// invocations this blocks until the subprocess exits and returns its exit
// code; for the browser process it returns -1 immediately.
func ExecuteSubprocess(argc int32, argv **byte) int32 {
	if wewExecuteSubprocess == nil {
		return -1
	}
	return wewExecuteSubprocess(argc, argv)
}

// GetExitCode returns the engine's recorded process exit code.
func GetExitCode() int32 {
	if wewGetExitCode == nil {
		return 0
	}
	return wewGetExitCode()
}

// RunMessageLoop runs the engine message loop on the calling thread.
// Blocks until QuitMessageLoop is called.
func RunMessageLoop() {
	if wewRunMessageLoop == nil {
		return
	}
	wewRunMessageLoop()
}

// QuitMessageLoop requests termination of a running message loop.
func QuitMessageLoop() {
	if wewQuitMessageLoop == nil {
		return
	}
	wewQuitMessageLoop()
}

// PollMessageLoop performs a single iteration of pending message loop work.
// Only valid when the runtime was created with an external message pump.
func PollMessageLoop() {
	if wewPollMessageLoop == nil {
		return
	}
	wewPollMessageLoop()
}

// PostTask schedules fn(ctx) on the engine's browser UI thread. fn must be
// a purego.NewCallback pointer. Returns false if the task could not be
// posted.
func PostTask(fn uintptr, ctx uintptr) bool {
	if wewPostTask == nil {
		return false
	}
	return wewPostTask(fn, ctx)
}

// CreateRuntime initializes the engine and returns an opaque runtime
// pointer, or nil on failure. The settings and handler structs are copied
// by the engine before this returns.
func CreateRuntime(settings *RuntimeSettings, handler *RuntimeHandler) Runtime {
	if wewCreateRuntime == nil {
		return nil
	}
	return wewCreateRuntime(settings, handler)
}

// ExecuteRuntime completes engine startup with the process command line.
func ExecuteRuntime(rt Runtime, argc int32, argv **byte) int32 {
	if rt == nil || wewExecuteRuntime == nil {
		return -1
	}
	return wewExecuteRuntime(rt, argc, argv)
}

// CloseRuntime shuts the engine down and frees the runtime.
func CloseRuntime(rt Runtime) {
	if rt == nil || wewCloseRuntime == nil {
		return
	}
	wewCloseRuntime(rt)
}

// CreateWebView asks the engine to create a browser for url. Returns nil
// on failure. Creation is asynchronous: the returned pointer is valid
// immediately but the page has not loaded yet.
func CreateWebView(rt Runtime, url string, settings *WebViewSettings, handler *WebViewHandler) WebView {
	if rt == nil || wewCreateWebView == nil {
		return nil
	}
	return wewCreateWebView(rt, url, settings, handler)
}

// CloseWebView destroys a browser.
func CloseWebView(wv WebView) {
	if wv == nil || wewCloseWebView == nil {
		return
	}
	wewCloseWebView(wv)
}

// MouseClick injects a mouse button event at x, y.
func MouseClick(wv WebView, x, y int32, modifiers uint32, button MouseButton, pressed bool) {
	if wv == nil || wewMouseClick == nil {
		return
	}
	wewMouseClick(wv, x, y, modifiers, int32(button), pressed)
}

// MouseMove injects a mouse move event.
func MouseMove(wv WebView, x, y int32, modifiers uint32) {
	if wv == nil || wewMouseMove == nil {
		return
	}
	wewMouseMove(wv, x, y, modifiers)
}

// MouseWheel injects a scroll event at x, y with the given deltas.
func MouseWheel(wv WebView, x, y, deltaX, deltaY int32) {
	if wv == nil || wewMouseWheel == nil {
		return
	}
	wewMouseWheel(wv, x, y, deltaX, deltaY)
}

// Keyboard injects a keyboard event.
func Keyboard(wv WebView, event *KeyEvent) {
	if wv == nil || event == nil || wewKeyboard == nil {
		return
	}
	wewKeyboard(wv, event)
}

// Touch injects a touch event.
func Touch(wv WebView, event *TouchEvent) {
	if wv == nil || event == nil || wewTouch == nil {
		return
	}
	wewTouch(wv, event)
}

// IMECommit commits composed text to the focused editable element.
func IMECommit(wv WebView, text string) {
	if wv == nil || wewIMECommit == nil {
		return
	}
	wewIMECommit(wv, text)
}

// IMESetComposition updates the in-progress composition string.
func IMESetComposition(wv WebView, text string, cursorX, cursorY int32) {
	if wv == nil || wewIMESetComposition == nil {
		return
	}
	wewIMESetComposition(wv, text, cursorX, cursorY)
}

// SendMessage delivers a string payload to the page's message handler.
func SendMessage(wv WebView, payload string) {
	if wv == nil || wewSendMessage == nil {
		return
	}
	wewSendMessage(wv, payload)
}

// SetDevToolsState opens or closes the developer tools window.
func SetDevToolsState(wv WebView, open bool) {
	if wv == nil || wewSetDevToolsState == nil {
		return
	}
	wewSetDevToolsState(wv, open)
}

// Resize notifies the engine that the view dimensions changed.
func Resize(wv WebView, width, height int32) {
	if wv == nil || wewResize == nil {
		return
	}
	wewResize(wv, width, height)
}

// GetWindowHandle returns the native window handle backing the browser,
// or nil for windowless browsers.
func GetWindowHandle(wv WebView) WindowHandle {
	if wv == nil || wewGetWindowHandle == nil {
		return nil
	}
	return wewGetWindowHandle(wv)
}

// SetRequestHandler installs a resource request interceptor. Pass nil to
// remove it. The handler struct is copied by the engine.
func SetRequestHandler(wv WebView, handler *ResourceRequestHandler) {
	if wv == nil || wewSetRequestHandler == nil {
		return
	}
	wewSetRequestHandler(wv, handler)
}
